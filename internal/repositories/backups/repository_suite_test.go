package backups

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/backup"
	apperr "github.com/KirkDiggler/remnant-save-analyzer/internal/errors"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// RepositorySuite exercises the behavior every Repository implementation shares
type RepositorySuite struct {
	suite.Suite
	newRepo func(TimeProvider) Repository
	clock   *fixedClock
	repo    Repository
	ctx     context.Context
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = &fixedClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	s.repo = s.newRepo(s.clock)
}

func (s *RepositorySuite) record(id, folder string, saveDate time.Time) *backup.Record {
	return &backup.Record{
		ID:             id,
		SaveFolderPath: folder,
		Name:           backup.Ticks(saveDate),
		SaveDate:       saveDate,
		Progression:    "Character 1: 10/20",
	}
}

func (s *RepositorySuite) TestCreateAndGet() {
	date := time.Date(2024, 4, 30, 22, 15, 1, 500, time.UTC)
	rec := s.record("b1", "/saves/a", date)

	s.Require().NoError(s.repo.Create(s.ctx, rec))
	s.Equal(s.clock.now, rec.CreatedAt)

	got, err := s.repo.Get(s.ctx, "b1")
	s.Require().NoError(err)
	s.Equal("b1", got.ID)
	s.Equal("/saves/a", got.SaveFolderPath)
	s.Equal(rec.Name, got.Name)
	s.True(date.Equal(got.SaveDate))
	s.Equal("Character 1: 10/20", got.Progression)
	s.True(s.clock.now.Equal(got.CreatedAt))
	s.True(s.clock.now.Equal(got.UpdatedAt))
}

func (s *RepositorySuite) TestCreateDuplicate() {
	s.Require().NoError(s.repo.Create(s.ctx, s.record("b1", "/saves/a", time.Unix(10, 0))))

	err := s.repo.Create(s.ctx, s.record("b1", "/saves/a", time.Unix(10, 0)))
	s.True(apperr.IsAlreadyExists(err), "got %v", err)
}

func (s *RepositorySuite) TestCreateValidation() {
	s.True(apperr.IsInvalidArgument(s.repo.Create(s.ctx, nil)))
	s.True(apperr.IsInvalidArgument(s.repo.Create(s.ctx, s.record("", "/saves/a", time.Unix(0, 0)))))
	s.True(apperr.IsInvalidArgument(s.repo.Create(s.ctx, s.record("b1", "", time.Unix(0, 0)))))
}

func (s *RepositorySuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, "nope")
	s.True(apperr.IsNotFound(err), "got %v", err)
}

func (s *RepositorySuite) TestUpdate() {
	rec := s.record("b1", "/saves/a", time.Unix(100, 0).UTC())
	s.Require().NoError(s.repo.Create(s.ctx, rec))
	created := s.clock.now

	s.clock.now = s.clock.now.Add(time.Hour)
	rec.Keep = true
	rec.Active = true
	rec.Name = "before the boss"
	s.Require().NoError(s.repo.Update(s.ctx, rec))

	got, err := s.repo.Get(s.ctx, "b1")
	s.Require().NoError(err)
	s.True(got.Keep)
	s.True(got.Active)
	s.Equal("before the boss", got.Name)
	s.True(created.Equal(got.CreatedAt))
	s.True(s.clock.now.Equal(got.UpdatedAt))
}

func (s *RepositorySuite) TestUpdateMissing() {
	err := s.repo.Update(s.ctx, s.record("ghost", "/saves/a", time.Unix(0, 0)))
	s.True(apperr.IsNotFound(err), "got %v", err)
}

func (s *RepositorySuite) TestUpdateMovesFolder() {
	rec := s.record("b1", "/saves/a", time.Unix(100, 0).UTC())
	s.Require().NoError(s.repo.Create(s.ctx, rec))

	rec.SaveFolderPath = "/saves/b"
	s.Require().NoError(s.repo.Update(s.ctx, rec))

	inA, err := s.repo.ListByFolder(s.ctx, "/saves/a")
	s.Require().NoError(err)
	s.Empty(inA)

	inB, err := s.repo.ListByFolder(s.ctx, "/saves/b")
	s.Require().NoError(err)
	s.Require().Len(inB, 1)
	s.Equal("b1", inB[0].ID)
}

func (s *RepositorySuite) TestDelete() {
	s.Require().NoError(s.repo.Create(s.ctx, s.record("b1", "/saves/a", time.Unix(100, 0))))

	s.Require().NoError(s.repo.Delete(s.ctx, "b1"))

	_, err := s.repo.Get(s.ctx, "b1")
	s.True(apperr.IsNotFound(err))
	s.True(apperr.IsNotFound(s.repo.Delete(s.ctx, "b1")))

	listed, err := s.repo.ListByFolder(s.ctx, "/saves/a")
	s.Require().NoError(err)
	s.Empty(listed)
}

func (s *RepositorySuite) TestListByFolderNewestFirst() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.Create(s.ctx, s.record("old", "/saves/a", base)))
	s.Require().NoError(s.repo.Create(s.ctx, s.record("new", "/saves/a", base.Add(48*time.Hour))))
	s.Require().NoError(s.repo.Create(s.ctx, s.record("mid", "/saves/a", base.Add(24*time.Hour))))
	s.Require().NoError(s.repo.Create(s.ctx, s.record("other", "/saves/b", base)))

	listed, err := s.repo.ListByFolder(s.ctx, "/saves/a")
	s.Require().NoError(err)

	var ids []string
	for _, rec := range listed {
		ids = append(ids, rec.ID)
	}
	s.Equal([]string{"new", "mid", "old"}, ids)
}

func (s *RepositorySuite) TestReturnedRecordsAreCopies() {
	s.Require().NoError(s.repo.Create(s.ctx, s.record("b1", "/saves/a", time.Unix(100, 0))))

	got, err := s.repo.Get(s.ctx, "b1")
	s.Require().NoError(err)
	got.Keep = true

	again, err := s.repo.Get(s.ctx, "b1")
	s.Require().NoError(err)
	s.False(again.Keep)
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositorySuite{
		newRepo: func(tp TimeProvider) Repository { return NewInMemoryRepository(tp) },
	})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositorySuite{
		newRepo: func(tp TimeProvider) Repository {
			repo, err := OpenSQLite(context.Background(), &SQLiteConfig{DSN: "sqlite://:memory:", TimeProvider: tp})
			require.NoError(t, err)
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
	})
}

func TestSQLiteRepositoryOnDisk(t *testing.T) {
	ctx := context.Background()
	dsn := "sqlite://" + t.TempDir() + "/backups.db"

	repo, err := OpenSQLite(ctx, &SQLiteConfig{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &backup.Record{ID: "b1", SaveFolderPath: "/saves/a", Name: "x"}))
	require.NoError(t, repo.Close())

	reopened, err := OpenSQLite(ctx, &SQLiteConfig{DSN: dsn})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, "x", got.Name)
	require.True(t, got.SaveDate.IsZero())
}

func TestOpenSQLiteRejectsBadDSN(t *testing.T) {
	_, err := OpenSQLite(context.Background(), &SQLiteConfig{DSN: "postgres://nope"})
	require.True(t, apperr.IsInvalidArgument(err), "got %v", err)
}
