package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/events"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/testutils"
)

func TestNewProviderWithoutCatalog(t *testing.T) {
	p := NewProvider(&ProviderConfig{})

	assert.Nil(t, p.Engine)
	assert.NotNil(t, p.BackupService)
	assert.Equal(t, 1, p.Bus.ListenerCount(events.EventTypeSnapshotUpdated))
}

func TestNewProviderWithCatalog(t *testing.T) {
	p := NewProvider(&ProviderConfig{Catalog: testutils.CreateTestCatalog(t)})

	assert.NotNil(t, p.Engine)
	assert.Equal(t, "Character 1: 0/9", p.Engine.Progression(testutils.CreateTestDataset(testutils.CreateTestCharacter(0))))
}
