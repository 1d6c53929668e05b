package logging

import "github.com/rs/zerolog"

// CategoryPlayerInfo tags report lines so they can be filtered out of the diagnostic log
const CategoryPlayerInfo = "player_info"

// ReportSink writes report lines through a zerolog logger.
// It satisfies report.Sink.
type ReportSink struct {
	logger zerolog.Logger
}

// NewReportSink tags every line written through logger with the player info category
func NewReportSink(logger *zerolog.Logger) *ReportSink {
	if logger == nil {
		logger = Default()
	}
	return &ReportSink{logger: logger.With().Str("category", CategoryPlayerInfo).Logger()}
}

// Info logs a report line at info level
func (s *ReportSink) Info(line string) {
	s.logger.Info().Msg(line)
}

// Warn logs a report line at warn level
func (s *ReportSink) Warn(line string) {
	s.logger.Warn().Msg(line)
}
