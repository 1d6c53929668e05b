package backup

import (
	"context"

	snapshot "github.com/KirkDiggler/remnant-save-analyzer/internal/backup"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
	"github.com/rs/zerolog"
)

// Progressor summarizes a decoded dataset
type Progressor interface {
	Progression(ds *dataset.Dataset) string
}

// NewProgressionSummarizer decodes the captured folder and summarizes it.
// Folders that fail to decode summarize to "".
func NewProgressionSummarizer(decoder dataset.Decoder, progressor Progressor, log *zerolog.Logger) snapshot.Summarizer {
	return snapshot.SummarizerFunc(func(path string) string {
		ds, err := decoder.Decode(context.Background(), path, nil)
		if err != nil {
			if log != nil {
				log.Warn().Err(err).Str("folder", path).Msg("cannot summarize backup")
			}
			return ""
		}
		return progressor.Progression(ds)
	})
}
