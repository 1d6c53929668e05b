package backups

import (
	"sort"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/backup"
	apperr "github.com/KirkDiggler/remnant-save-analyzer/internal/errors"
)

func sortNewestFirst(records []*backup.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.SaveDate.Equal(b.SaveDate) {
			return a.SaveDate.After(b.SaveDate)
		}
		return a.ID < b.ID
	})
}

func validate(rec *backup.Record) error {
	if rec == nil {
		return apperr.InvalidArgument("record cannot be nil")
	}
	if rec.ID == "" {
		return apperr.InvalidArgument("record ID cannot be empty")
	}
	if rec.SaveFolderPath == "" {
		return apperr.InvalidArgument("record save folder cannot be empty")
	}
	return nil
}
