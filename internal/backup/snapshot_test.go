package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/events"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SnapshotTestSuite struct {
	suite.Suite
	saveDate  time.Time
	snapshot  *Snapshot
	notified  []events.SnapshotField
	summaries int
}

func (s *SnapshotTestSuite) SetupTest() {
	s.saveDate = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	s.notified = nil
	s.summaries = 0

	s.snapshot = New("/saves/steam/1234", &Config{
		IDs: uuid.NewSequenceGenerator("snap"),
		ModTime: func(path string) (time.Time, error) {
			s.Equal(filepath.Join("/saves/steam/1234", "profile.sav"), path)
			return s.saveDate, nil
		},
		Summarizer: SummarizerFunc(func(path string) string {
			s.summaries++
			return "Character 1: 120/640"
		}),
	})
	s.snapshot.Subscribe(func(field events.SnapshotField, snapshot *Snapshot) {
		s.Same(s.snapshot, snapshot)
		s.notified = append(s.notified, field)
	})
}

func (s *SnapshotTestSuite) TestDefaults() {
	s.Equal("snap-1", s.snapshot.ID())
	s.Equal("/saves/steam/1234", s.snapshot.SaveFolderPath())
	s.Equal(s.saveDate, s.snapshot.SaveDate())
	s.Equal("638448930000000000", s.snapshot.Name())
	s.False(s.snapshot.Keep())
	s.False(s.snapshot.Active())
	s.False(s.snapshot.Editing())
}

func (s *SnapshotTestSuite) TestProgressionIsComputedOnce() {
	s.Zero(s.summaries)
	s.Equal("Character 1: 120/640", s.snapshot.Progression())
	s.Equal("Character 1: 120/640", s.snapshot.Progression())
	s.Equal(1, s.summaries)
}

func (s *SnapshotTestSuite) TestEmptyNameFallsBackToTicks() {
	s.snapshot.SetName("before the boss")
	s.Equal("before the boss", s.snapshot.Name())

	s.snapshot.SetName("")
	s.Equal(Ticks(s.saveDate), s.snapshot.Name())
	s.Empty(s.notified)
}

func (s *SnapshotTestSuite) TestCancelEditRestoresAndStaysQuiet() {
	s.snapshot.BeginEdit()
	s.snapshot.SetName("renamed")
	s.snapshot.SetSaveDate(s.saveDate.Add(time.Hour))
	s.snapshot.SetActive(true)
	s.snapshot.CancelEdit()

	s.Equal(Ticks(s.saveDate), s.snapshot.Name())
	s.Equal(s.saveDate, s.snapshot.SaveDate())
	s.False(s.snapshot.Active())
	s.False(s.snapshot.Editing())
	s.Empty(s.notified)
}

func (s *SnapshotTestSuite) TestEndEditNotifiesChangedFields() {
	s.snapshot.BeginEdit()
	s.snapshot.SetName("pinned")
	s.snapshot.SetActive(true)
	s.snapshot.SetSaveDate(s.saveDate)
	s.Require().NoError(s.snapshot.EndEdit())

	s.Equal([]events.SnapshotField{events.FieldName, events.FieldActive}, s.notified)
	s.False(s.snapshot.Editing())
}

func (s *SnapshotTestSuite) TestEndEditNotificationOrder() {
	s.snapshot.BeginEdit()
	s.snapshot.SetActive(true)
	s.snapshot.SetSaveDate(s.saveDate.Add(time.Minute))
	s.snapshot.SetName("all of them")
	s.Require().NoError(s.snapshot.EndEdit())

	s.Equal([]events.SnapshotField{events.FieldName, events.FieldSaveDate, events.FieldActive}, s.notified)
}

func (s *SnapshotTestSuite) TestKeepAndNameInTransaction() {
	s.snapshot.BeginEdit()
	s.Require().NoError(s.snapshot.SetKeep(true))
	s.snapshot.SetName("keeper")
	s.Empty(s.notified)

	s.Require().NoError(s.snapshot.EndEdit())

	s.Equal([]events.SnapshotField{events.FieldName, events.FieldKeep}, s.notified)
	s.True(s.snapshot.Keep())
}

func (s *SnapshotTestSuite) TestKeepToggledBackInTransaction() {
	s.snapshot.BeginEdit()
	s.Require().NoError(s.snapshot.SetKeep(true))
	s.Require().NoError(s.snapshot.SetKeep(false))
	s.Require().NoError(s.snapshot.EndEdit())

	s.Empty(s.notified)
}

func (s *SnapshotTestSuite) TestSetKeepOutsideTransaction() {
	s.Require().NoError(s.snapshot.SetKeep(false))
	s.Empty(s.notified)

	s.Require().NoError(s.snapshot.SetKeep(true))
	s.Require().NoError(s.snapshot.SetKeep(true))
	s.Equal([]events.SnapshotField{events.FieldKeep}, s.notified)
}

func (s *SnapshotTestSuite) TestNestedBeginEditIsNoop() {
	s.snapshot.BeginEdit()
	s.snapshot.SetName("first")
	s.snapshot.BeginEdit()
	s.snapshot.SetName("second")
	s.snapshot.CancelEdit()

	s.Equal(Ticks(s.saveDate), s.snapshot.Name())
}

func (s *SnapshotTestSuite) TestEndAndCancelWithoutTransaction() {
	s.snapshot.SetName("direct")
	s.snapshot.CancelEdit()
	s.Require().NoError(s.snapshot.EndEdit())

	s.Equal("direct", s.snapshot.Name())
	s.Empty(s.notified)
}

func (s *SnapshotTestSuite) TestUnsubscribe() {
	calls := 0
	unsubscribe := s.snapshot.Subscribe(func(events.SnapshotField, *Snapshot) { calls++ })

	s.Require().NoError(s.snapshot.SetKeep(true))
	unsubscribe()
	s.Require().NoError(s.snapshot.SetKeep(false))

	s.Equal(1, calls)
	s.Len(s.notified, 2)
}

func TestSnapshotSuite(t *testing.T) {
	suite.Run(t, new(SnapshotTestSuite))
}

func TestSharedBusOnlyDeliversOwnSnapshot(t *testing.T) {
	bus := events.NewBus()
	modTime := func(string) (time.Time, error) { return time.Unix(0, 0), nil }
	a := New("/a", &Config{ID: "a", Bus: bus, ModTime: modTime})
	b := New("/b", &Config{ID: "b", Bus: bus, ModTime: modTime})

	var fromA int
	a.Subscribe(func(events.SnapshotField, *Snapshot) { fromA++ })

	require.NoError(t, b.SetKeep(true))
	require.NoError(t, a.SetKeep(true))

	assert.Equal(t, 1, fromA)
}

func TestEndEditJoinsListenerErrors(t *testing.T) {
	bus := events.NewBus()
	boom := errors.New("index unavailable")
	bus.Subscribe(events.EventTypeSnapshotUpdated, &events.ListenerFunc{
		Name:   "failing",
		Handle: func(events.Event) error { return boom },
	})

	snap := New("/a", &Config{ID: "a", Bus: bus, ModTime: func(string) (time.Time, error) { return time.Time{}, nil }})
	snap.BeginEdit()
	snap.SetName("x")
	snap.SetActive(true)

	err := snap.EndEdit()
	require.ErrorIs(t, err, boom)
	assert.False(t, snap.Editing())
}

func TestNewReadsProfileModTime(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "profile.sav")
	require.NoError(t, os.WriteFile(profile, []byte{1}, 0o600))

	stamp := time.Date(2023, 8, 9, 10, 11, 12, 0, time.Local)
	require.NoError(t, os.Chtimes(profile, stamp, stamp))

	snap := New(dir, nil)
	assert.True(t, snap.SaveDate().Equal(stamp))
	assert.Equal(t, Ticks(snap.SaveDate()), snap.Name())
	assert.NotEmpty(t, snap.ID())
	assert.Empty(t, snap.Progression())
}

func TestNewWithoutProfileSave(t *testing.T) {
	snap := New(t.TempDir(), &Config{ID: "missing"})
	assert.True(t, snap.SaveDate().IsZero())
	assert.Equal(t, "0", snap.Name())
}

func TestTicks(t *testing.T) {
	assert.Equal(t, "621355968000000000", Ticks(time.Unix(0, 0).UTC()))
	assert.Equal(t, "621355968000000001", Ticks(time.Unix(0, 100).UTC()))

	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	assert.Equal(t, "621356040000000000", Ticks(time.Unix(0, 0).In(plusTwo)))
}

func TestRecordRoundTrip(t *testing.T) {
	date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := New("/saves/x", &Config{
		ID:         "x",
		ModTime:    func(string) (time.Time, error) { return date, nil },
		Summarizer: SummarizerFunc(func(string) string { return "summary" }),
	})
	require.NoError(t, snap.SetKeep(true))
	snap.SetActive(true)

	rec := snap.Record()
	assert.Equal(t, &Record{
		ID:             "x",
		SaveFolderPath: "/saves/x",
		Name:           Ticks(date),
		SaveDate:       date,
		Keep:           true,
		Active:         true,
		Progression:    "summary",
	}, rec)

	restored := FromRecord(rec, &Config{
		Summarizer: SummarizerFunc(func(string) string { panic("stored progression should be used") }),
	})
	assert.Equal(t, "x", restored.ID())
	assert.Equal(t, "summary", restored.Progression())
	assert.True(t, restored.Keep())
	assert.Equal(t, rec.Name, restored.Name())
}

func TestFailingPersistenceStillNotifiesSubscribers(t *testing.T) {
	bus := events.NewBus()
	down := errors.New("redis down")
	bus.Subscribe(events.EventTypeSnapshotUpdated, &events.ListenerFunc{
		Name:   "index",
		Order:  events.PriorityPersistence,
		Handle: func(events.Event) error { return down },
	})

	snap := New("/a", &Config{ID: "a", Bus: bus, ModTime: func(string) (time.Time, error) { return time.Time{}, nil }})
	var seen []events.SnapshotField
	snap.Subscribe(func(field events.SnapshotField, _ *Snapshot) { seen = append(seen, field) })

	snap.BeginEdit()
	snap.SetName("before the boss")
	require.NoError(t, snap.SetKeep(true))

	err := snap.EndEdit()
	require.ErrorIs(t, err, down)
	assert.Equal(t, []events.SnapshotField{events.FieldName, events.FieldKeep}, seen)

	err = snap.SetKeep(false)
	require.ErrorIs(t, err, down)
	assert.Equal(t, []events.SnapshotField{events.FieldName, events.FieldKeep, events.FieldKeep}, seen)
}
