package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	snapshot "github.com/KirkDiggler/remnant-save-analyzer/internal/backup"
	backupsvc "github.com/KirkDiggler/remnant-save-analyzer/internal/services/backup"
)

func backupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Record and manage save folder backups",
	}
	cmd.AddCommand(backupRecordCmd(a))
	cmd.AddCommand(backupListCmd(a))
	cmd.AddCommand(backupKeepCmd(a))
	cmd.AddCommand(backupRenameCmd(a))
	cmd.AddCommand(backupActivateCmd(a))
	cmd.AddCommand(backupPruneCmd(a))
	return cmd
}

// withBackups opens the backup service for the duration of fn
func withBackups(ctx context.Context, a *app, fn func(backupsvc.Service) error) error {
	svc, closer, err := a.backups(ctx)
	if err != nil {
		return err
	}
	defer closer()
	return fn(svc)
}

func backupRecordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "record <folder>",
		Short: "Capture a save folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackups(cmd.Context(), a, func(svc backupsvc.Service) error {
				snap, err := svc.Record(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "recorded %s (%s)\n", snap.ID(), snap.Name())
				return nil
			})
		},
	}
}

func backupListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <folder>",
		Short: "List the backups of a save folder, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackups(cmd.Context(), a, func(svc backupsvc.Service) error {
				snaps, err := svc.List(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printSnapshots(cmd.OutOrStdout(), snaps)
			})
		},
	}
}

func backupKeepCmd(a *app) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "keep <id>",
		Short: "Pin a backup so pruning never removes it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackups(cmd.Context(), a, func(svc backupsvc.Service) error {
				snap, err := svc.SetKeep(cmd.Context(), args[0], !off)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s keep=%t\n", snap.ID(), snap.Keep())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "unpin instead")
	return cmd
}

func backupRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> [name]",
		Short: "Rename a backup; without a name the default is restored",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			return withBackups(cmd.Context(), a, func(svc backupsvc.Service) error {
				snap, err := svc.Rename(cmd.Context(), args[0], name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s name=%s\n", snap.ID(), snap.Name())
				return nil
			})
		},
	}
}

func backupActivateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Mark a backup as the one currently loaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackups(cmd.Context(), a, func(svc backupsvc.Service) error {
				if err := svc.SetActive(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s active\n", args[0])
				return nil
			})
		},
	}
}

func backupPruneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prune <folder>",
		Short: "Delete the oldest unpinned backups beyond ANALYZER_BACKUP_LIMIT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackups(cmd.Context(), a, func(svc backupsvc.Service) error {
				pruned, err := svc.Prune(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, id := range pruned {
					fmt.Fprintf(cmd.OutOrStdout(), "pruned %s\n", id)
				}
				if len(pruned) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to prune")
				}
				return nil
			})
		},
	}
}

func printSnapshots(w io.Writer, snaps []*snapshot.Snapshot) error {
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(w, "No backups found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSAVED\tKEEP\tACTIVE\tPROGRESSION")
	for _, s := range snaps {
		saved := "unknown"
		if !s.SaveDate().IsZero() {
			saved = s.SaveDate().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID(), s.Name(), saved, mark(s.Keep()), mark(s.Active()), s.Progression())
	}
	return tw.Flush()
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
