package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepoTestSuite struct {
	suite.Suite
	client *redis.Client
	mock   redismock.ClientMock
	repo   Repository
	doc    *Document
	data   string
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.client, s.mock = redismock.NewClientMock()
	s.repo = NewRedis(s.client)

	p, inv, quests := testHero(s.T())
	s.doc = NewDocument(p, inv, quests, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	data, err := s.doc.Encode()
	s.Require().NoError(err)
	s.data = string(data)
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) TestSave() {
	ctx := context.Background()

	s.mock.ExpectSet("hero:h1", s.data, 0).SetVal("OK")
	s.mock.ExpectSAdd("heroes", "h1").SetVal(1)
	s.NoError(s.repo.Save(ctx, s.doc))

	s.mock.ExpectSet("hero:h1", s.data, 0).SetErr(errors.New("redis down"))
	s.Error(s.repo.Save(ctx, s.doc))

	s.Error(s.repo.Save(ctx, nil))
}

func (s *RedisRepoTestSuite) TestLoad() {
	ctx := context.Background()

	s.mock.ExpectGet("hero:h1").SetVal(s.data)
	doc, err := s.repo.Load(ctx, "h1")
	s.Require().NoError(err)
	s.Equal("h1", doc.HeroID)
	s.Equal(120, doc.Inventory.Gold)
	s.Equal("q_wolves", doc.Quests[0].QuestID)

	s.mock.ExpectGet("hero:missing").RedisNil()
	_, err = s.repo.Load(ctx, "missing")
	s.ErrorIs(err, ErrNotFound)

	s.mock.ExpectGet("hero:h1").SetErr(errors.New("redis down"))
	_, err = s.repo.Load(ctx, "h1")
	s.Error(err)
	s.NotErrorIs(err, ErrNotFound)

	s.mock.ExpectGet("hero:bad").SetVal("{nope")
	_, err = s.repo.Load(ctx, "bad")
	s.ErrorIs(err, ErrCorrupt)
}

func (s *RedisRepoTestSuite) TestList() {
	s.mock.ExpectSMembers("heroes").SetVal([]string{"h2", "h1"})

	ids, err := s.repo.List(context.Background())

	s.Require().NoError(err)
	s.Equal([]string{"h1", "h2"}, ids)
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()

	s.mock.ExpectDel("hero:h1").SetVal(1)
	s.mock.ExpectSRem("heroes", "h1").SetVal(1)
	s.NoError(s.repo.Delete(ctx, "h1"))

	s.mock.ExpectDel("hero:h1").SetVal(0)
	s.mock.ExpectSRem("heroes", "h1").SetVal(0)
	s.ErrorIs(s.repo.Delete(ctx, "h1"), ErrNotFound)
}
