package backups

import "time"

//go:generate mockgen -destination=mock/mock_time_provider.go -package=mockbackups -source=time_provider.go

type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (r *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
