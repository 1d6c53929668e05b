package backups

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"memory", "sqlite://:memory:", ":memory:"},
		{"absolute", "sqlite:///var/lib/analyzer/backups.db", "/var/lib/analyzer/backups.db"},
		{"relative", "sqlite://backups.db", "./backups.db"},
		{"dot relative", "sqlite://./data/backups.db", "./data/backups.db"},
		{"escaped", "sqlite://my%20saves.db", "./my saves.db"},
		{"query", "sqlite://backups.db?_pragma=foreign_keys(1)", "./backups.db?_pragma=foreign_keys(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDSN(tt.dsn)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDSNErrors(t *testing.T) {
	for _, dsn := range []string{"file:backups.db", "sqlite://", "sqlite://%zz"} {
		_, err := parseDSN(dsn)
		assert.Error(t, err, dsn)
	}
}
