package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"

	snapshot "github.com/KirkDiggler/remnant-save-analyzer/internal/backup"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/config"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/logging"
	backupsvc "github.com/KirkDiggler/remnant-save-analyzer/internal/services/backup"
	mockbackup "github.com/KirkDiggler/remnant-save-analyzer/internal/services/backup/mock"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/testutils"
)

func testApp(t *testing.T, env map[string]string) (*app, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.LoadFrom(env)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := logging.New(&logging.Config{Level: "info", Format: "json", Output: &buf})
	return &app{cfg: cfg, log: &logger}, &buf
}

func writeCatalog(t *testing.T) string {
	t.Helper()
	data, err := yaml.Marshal(map[string]any{
		"version": 1,
		"items":   testutils.CreateTestEntries(),
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func writeSaveFolder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.sav"), []byte{0}, 0o600))

	ds := testutils.CreateTestDataset(testutils.CreateTestCharacter(0,
		testutils.CreateTestItem(1, testutils.ProfileLongGun),
	))
	data, err := json.Marshal(ds)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dataset.json"), data, 0o600))
	return dir
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(a)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReportCommand(t *testing.T) {
	a, logs := testApp(t, map[string]string{
		"ANALYZER_CATALOG":   writeCatalog(t),
		"ANALYZER_DUMP_JSON": "true",
	})
	folder := writeSaveFolder(t)

	_, err := run(t, a, "report", folder)
	require.NoError(t, err)

	assert.Contains(t, logs.String(), `"category":"player_info"`)
	assert.Contains(t, logs.String(), "Active character save: save_0.sav")
	assert.Contains(t, logs.String(), "Character 1 (save_0), Acquired Items: 1")
	assert.FileExists(t, filepath.Join(folder, "analyzer.json"))
}

func TestReportCommandWithoutPlayerInfo(t *testing.T) {
	a, logs := testApp(t, map[string]string{
		"ANALYZER_CATALOG":            writeCatalog(t),
		"ANALYZER_REPORT_PLAYER_INFO": "false",
	})
	folder := writeSaveFolder(t)

	_, err := run(t, a, "report", folder)
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "Progression: Character 1: 1/9")
	assert.NotContains(t, logs.String(), "Active character save")
}

func TestReportCommandKeepsFolderOrder(t *testing.T) {
	a, logs := testApp(t, map[string]string{"ANALYZER_CATALOG": writeCatalog(t)})
	first, second := writeSaveFolder(t), writeSaveFolder(t)

	_, err := run(t, a, "report", first, second)
	require.NoError(t, err)

	out := logs.String()
	firstAt := bytes.Index([]byte(out), []byte(`"folder":"`+first+`","category":"player_info"`))
	secondAt := bytes.Index([]byte(out), []byte(`"folder":"`+second+`","category":"player_info"`))
	require.GreaterOrEqual(t, firstAt, 0)
	require.GreaterOrEqual(t, secondAt, 0)
	assert.Less(t, firstAt, secondAt)
}

func TestReportCommandInvalidFolder(t *testing.T) {
	a, _ := testApp(t, map[string]string{"ANALYZER_CATALOG": writeCatalog(t)})

	_, err := run(t, a, "report", t.TempDir())
	assert.Error(t, err)
}

func TestReportCommandMissingCatalog(t *testing.T) {
	a, _ := testApp(t, map[string]string{"ANALYZER_CATALOG": filepath.Join(t.TempDir(), "none.yaml")})

	_, err := run(t, a, "report", writeSaveFolder(t))
	assert.Error(t, err)
}

func mockBackups(a *app, svc backupsvc.Service) {
	a.backups = func(context.Context) (backupsvc.Service, func(), error) {
		return svc, func() {}, nil
	}
}

func TestBackupList(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockbackup.NewMockService(ctrl)
	a, _ := testApp(t, map[string]string{})
	mockBackups(a, svc)

	saved := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	svc.EXPECT().List(gomock.Any(), "/saves/a").Return([]*snapshot.Snapshot{
		snapshot.FromRecord(&snapshot.Record{ID: "bk-2", SaveFolderPath: "/saves/a", Name: "boss", SaveDate: saved, Keep: true, Progression: "Character 1: 3/9"}, nil),
		snapshot.FromRecord(&snapshot.Record{ID: "bk-1", SaveFolderPath: "/saves/a", Name: "0"}, nil),
	}, nil)

	out, err := run(t, a, "backup", "list", "/saves/a")
	require.NoError(t, err)

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "bk-2  boss")
	assert.Contains(t, out, "2024-03-01 12:30:00")
	assert.Contains(t, out, "Character 1: 3/9")
	assert.Contains(t, out, "unknown")
}

func TestBackupListEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockbackup.NewMockService(ctrl)
	a, _ := testApp(t, map[string]string{})
	mockBackups(a, svc)

	svc.EXPECT().List(gomock.Any(), "/saves/a").Return(nil, nil)

	out, err := run(t, a, "backup", "list", "/saves/a")
	require.NoError(t, err)
	assert.Contains(t, out, "No backups found.")
}

func TestBackupKeepOff(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockbackup.NewMockService(ctrl)
	a, _ := testApp(t, map[string]string{})
	mockBackups(a, svc)

	svc.EXPECT().SetKeep(gomock.Any(), "bk-1", false).
		Return(snapshot.FromRecord(&snapshot.Record{ID: "bk-1", SaveFolderPath: "/saves/a"}, nil), nil)

	out, err := run(t, a, "backup", "keep", "bk-1", "--off")
	require.NoError(t, err)
	assert.Contains(t, out, "bk-1 keep=false")
}

func TestBackupPrune(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockbackup.NewMockService(ctrl)
	a, _ := testApp(t, map[string]string{})
	mockBackups(a, svc)

	svc.EXPECT().Prune(gomock.Any(), "/saves/a").Return([]string{"bk-1", "bk-2"}, nil)

	out, err := run(t, a, "backup", "prune", "/saves/a")
	require.NoError(t, err)
	assert.Contains(t, out, "pruned bk-1\npruned bk-2\n")
}

func TestBackupRecordWithMemoryStore(t *testing.T) {
	a, _ := testApp(t, map[string]string{"ANALYZER_CATALOG": writeCatalog(t)})
	folder := writeSaveFolder(t)

	out, err := run(t, a, "backup", "record", folder)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded ")
}

func TestBackupRecordWithSQLiteStore(t *testing.T) {
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "backups.db")
	env := map[string]string{
		"ANALYZER_CATALOG":           writeCatalog(t),
		"ANALYZER_BACKUP_STORE":      "sqlite",
		"ANALYZER_BACKUP_SQLITE_DSN": dsn,
	}
	folder := writeSaveFolder(t)

	a, _ := testApp(t, env)
	_, err := run(t, a, "backup", "record", folder)
	require.NoError(t, err)

	b, _ := testApp(t, env)
	out, err := run(t, b, "backup", "list", folder)
	require.NoError(t, err)
	assert.Contains(t, out, "Character 1: 1/9")
}

func TestVersion(t *testing.T) {
	out, err := run(t, &app{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}
