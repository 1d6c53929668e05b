package backups

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/backup"
	apperr "github.com/KirkDiggler/remnant-save-analyzer/internal/errors"
	mockbackups "github.com/KirkDiggler/remnant-save-analyzer/internal/repositories/backups/mock"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RedisRepoTestSuite struct {
	suite.Suite
	client       *redis.Client
	mock         redismock.ClientMock
	mockCtrl     *gomock.Controller
	timeProvider *mockbackups.MockTimeProvider
	repo         Repository
	ctx          context.Context
	now          time.Time
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.client, s.mock = redismock.NewClientMock()
	s.mockCtrl = gomock.NewController(s.T())
	s.timeProvider = mockbackups.NewMockTimeProvider(s.mockCtrl)
	s.repo = NewRedisRepository(&RedisRepoConfig{Client: s.client, TimeProvider: s.timeProvider})
	s.ctx = context.Background()
	s.now = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) record(id, folder string) *backup.Record {
	date := time.Date(2024, 4, 30, 22, 0, 0, 0, time.UTC)
	return &backup.Record{
		ID:             id,
		SaveFolderPath: folder,
		Name:           backup.Ticks(date),
		SaveDate:       date,
	}
}

func (s *RedisRepoTestSuite) encode(rec *backup.Record) string {
	data, err := json.Marshal(toData(rec))
	s.Require().NoError(err)
	return string(data)
}

func (s *RedisRepoTestSuite) TestCreate() {
	rec := s.record("b1", "/saves/a")
	s.timeProvider.EXPECT().Now().Return(s.now)

	expected := *rec
	expected.CreatedAt = s.now
	expected.UpdatedAt = s.now

	s.mock.ExpectExists("backup:b1").SetVal(0)
	s.mock.ExpectSet("backup:b1", s.encode(&expected), 0).SetVal("OK")
	s.mock.ExpectSAdd("folder:/saves/a:backups", "b1").SetVal(1)

	s.Require().NoError(s.repo.Create(s.ctx, rec))
	s.Equal(s.now, rec.CreatedAt)
}

func (s *RedisRepoTestSuite) TestCreateAlreadyExists() {
	s.mock.ExpectExists("backup:b1").SetVal(1)

	err := s.repo.Create(s.ctx, s.record("b1", "/saves/a"))
	s.True(apperr.IsAlreadyExists(err), "got %v", err)
}

func (s *RedisRepoTestSuite) TestCreateDependencyError() {
	s.mock.ExpectExists("backup:b1").SetErr(errors.New("redis error"))

	s.Error(s.repo.Create(s.ctx, s.record("b1", "/saves/a")))
}

func (s *RedisRepoTestSuite) TestCreateValidation() {
	s.True(apperr.IsInvalidArgument(s.repo.Create(s.ctx, nil)))
	s.True(apperr.IsInvalidArgument(s.repo.Create(s.ctx, s.record("", "/saves/a"))))
}

func (s *RedisRepoTestSuite) TestGet() {
	rec := s.record("b1", "/saves/a")
	rec.Keep = true
	s.mock.ExpectGet("backup:b1").SetVal(s.encode(rec))

	got, err := s.repo.Get(s.ctx, "b1")
	s.Require().NoError(err)
	s.Equal(rec, got)
}

func (s *RedisRepoTestSuite) TestGetNotFound() {
	s.mock.ExpectGet("backup:b1").RedisNil()

	_, err := s.repo.Get(s.ctx, "b1")
	s.True(apperr.IsNotFound(err), "got %v", err)
}

func (s *RedisRepoTestSuite) TestGetDependencyError() {
	s.mock.ExpectGet("backup:b1").SetErr(errors.New("redis error"))

	_, err := s.repo.Get(s.ctx, "b1")
	s.Error(err)
	s.False(apperr.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, "")
	s.True(apperr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestUpdateSameFolder() {
	created := s.now.Add(-time.Hour)
	existing := s.record("b1", "/saves/a")
	existing.CreatedAt = created
	existing.UpdatedAt = created
	s.mock.ExpectGet("backup:b1").SetVal(s.encode(existing))
	s.timeProvider.EXPECT().Now().Return(s.now)

	rec := s.record("b1", "/saves/a")
	rec.Keep = true

	expected := *rec
	expected.CreatedAt = created
	expected.UpdatedAt = s.now
	s.mock.ExpectSet("backup:b1", s.encode(&expected), 0).SetVal("OK")

	s.Require().NoError(s.repo.Update(s.ctx, rec))
	s.Equal(created, rec.CreatedAt)
}

func (s *RedisRepoTestSuite) TestUpdateMovesIndex() {
	existing := s.record("b1", "/saves/a")
	s.mock.ExpectGet("backup:b1").SetVal(s.encode(existing))
	s.timeProvider.EXPECT().Now().Return(s.now)

	rec := s.record("b1", "/saves/b")
	expected := *rec
	expected.UpdatedAt = s.now
	s.mock.ExpectSet("backup:b1", s.encode(&expected), 0).SetVal("OK")
	s.mock.ExpectSRem("folder:/saves/a:backups", "b1").SetVal(1)
	s.mock.ExpectSAdd("folder:/saves/b:backups", "b1").SetVal(1)

	s.Require().NoError(s.repo.Update(s.ctx, rec))
}

func (s *RedisRepoTestSuite) TestUpdateMissing() {
	s.mock.ExpectGet("backup:b1").RedisNil()

	err := s.repo.Update(s.ctx, s.record("b1", "/saves/a"))
	s.True(apperr.IsNotFound(err), "got %v", err)
}

func (s *RedisRepoTestSuite) TestDelete() {
	s.mock.ExpectGet("backup:b1").SetVal(s.encode(s.record("b1", "/saves/a")))
	s.mock.ExpectDel("backup:b1").SetVal(1)
	s.mock.ExpectSRem("folder:/saves/a:backups", "b1").SetVal(1)

	s.Require().NoError(s.repo.Delete(s.ctx, "b1"))
}

func (s *RedisRepoTestSuite) TestListByFolder() {
	older := s.record("older", "/saves/a")
	older.SaveDate = older.SaveDate.Add(-time.Hour)
	newer := s.record("newer", "/saves/a")

	s.mock.MatchExpectationsInOrder(false)
	s.mock.ExpectSMembers("folder:/saves/a:backups").SetVal([]string{"older", "stale", "newer"})
	s.mock.ExpectGet("backup:older").SetVal(s.encode(older))
	s.mock.ExpectGet("backup:stale").RedisNil()
	s.mock.ExpectGet("backup:newer").SetVal(s.encode(newer))

	listed, err := s.repo.ListByFolder(s.ctx, "/saves/a")
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal("newer", listed[0].ID)
	s.Equal("older", listed[1].ID)
}

func (s *RedisRepoTestSuite) TestListByFolderDependencyError() {
	s.mock.ExpectSMembers("folder:/saves/a:backups").SetErr(errors.New("redis error"))

	_, err := s.repo.ListByFolder(s.ctx, "/saves/a")
	s.Error(err)
}

func TestNewRedisRepositoryRequiresClient(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic without a client")
		}
	}()
	NewRedisRepository(&RedisRepoConfig{})
}
