package main

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/logging"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/report"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/session"
)

const maxParallelFolders = 4

func reportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report [folder...]",
		Short: "Print the reconciliation report of one or more save folders",
		Long: "Decodes each save folder and reports owned and missing items against the catalog.\n" +
			"Without arguments the configured ANALYZER_SAVE_FOLDER is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			folders := args
			if len(folders) == 0 && a.cfg.Save.Folder != "" {
				folders = []string{a.cfg.Save.Folder}
			}
			if len(folders) == 0 {
				return cmd.Usage()
			}
			return runReport(cmd.Context(), a, folders)
		},
	}
}

// logNotifier surfaces load failures through the log
type logNotifier struct {
	log *zerolog.Logger
}

func (n *logNotifier) ReportError(details string) {
	n.log.Error().Msg(details)
}

// runReport loads every folder concurrently and replays the reports in argument order.
// Without player info only the progression summary is printed.
func runReport(ctx context.Context, a *app, folders []string) error {
	engine, err := a.engine()
	if err != nil {
		return err
	}

	collected := make([]*report.Collector, len(folders))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFolders)
	for i, folder := range folders {
		g.Go(func() error {
			log := a.log.With().Str("folder", folder).Logger()
			collector := &report.Collector{}

			cfg := &session.Config{
				Decoder:    a.decoder,
				Reporter:   engine,
				ReportSink: collector,
				Notifier:   &logNotifier{log: &log},
				Logger:     &log,
				Options: session.Options{
					EmitInitialReport: a.cfg.Save.ReportPlayerInfo,
					DumpDataset:       a.cfg.Save.DumpAnalyzerJSON,
				},
			}
			if a.cfg.Save.DumpAnalyzerJSON {
				cfg.Dumper = &session.JSONDumper{Path: dumpPath(folder, a.cfg.Save.DumpPath)}
			}

			c, err := session.Open(ctx, folder, cfg)
			if err != nil {
				return err
			}
			if !a.cfg.Save.ReportPlayerInfo {
				collector.Info("Progression: " + engine.Progression(c.Dataset()))
			}
			collected[i] = collector
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, folder := range folders {
		log := a.log.With().Str("folder", folder).Logger()
		report.Write(collected[i].Lines, logging.NewReportSink(&log))
	}
	return nil
}

// dumpPath places relative dump paths inside the save folder
func dumpPath(folder, path string) string {
	if path == "" {
		path = session.DefaultDumpName
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(folder, path)
}
