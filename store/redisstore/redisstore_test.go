package redisstore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/oriumgames/traitswap/store"
	"github.com/oriumgames/traitswap/store/redisstore"
)

type RedisStoreTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    redis.UniversalClient
	store     *redisstore.Store
	ctx       context.Context
}

func (s *RedisStoreTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.miniRedis = mr

	client, err := redisstore.Dial(mr.Addr(), nil)
	s.Require().NoError(err)
	s.client = client

	st, err := redisstore.New(&redisstore.Config{Client: client})
	s.Require().NoError(err)
	s.store = st

	s.ctx = context.Background()
}

func (s *RedisStoreTestSuite) TearDownTest() {
	_ = s.store.Close()
	s.miniRedis.Close()
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func (s *RedisStoreTestSuite) TestLoadMissingHash() {
	snap, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(snap)
}

func (s *RedisStoreTestSuite) TestSaveAndLoad() {
	want := store.Snapshot{
		"0b7a2f9e-6f0c-4a53-9a3b-1d6a2b1e8c4d": "SPEED_PLUS",
		"5c1d8f3e-2a4b-4c6d-8e9f-0a1b2c3d4e5f": "NO_TRAIT",
	}
	s.Require().NoError(s.store.Save(s.ctx, want))

	s.Equal(redisstore.DefaultKey, s.store.Key())
	s.Equal("SPEED_PLUS", s.miniRedis.HGet(redisstore.DefaultKey, "0b7a2f9e-6f0c-4a53-9a3b-1d6a2b1e8c4d"))

	got, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *RedisStoreTestSuite) TestSaveReplacesPreviousContents() {
	s.Require().NoError(s.store.Save(s.ctx, store.Snapshot{"a": "SPEED_PLUS", "b": "JUMP_PLUS"}))
	s.Require().NoError(s.store.Save(s.ctx, store.Snapshot{"b": "SPEED_PLUS"}))

	got, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(store.Snapshot{"b": "SPEED_PLUS"}, got)
}

func (s *RedisStoreTestSuite) TestSaveEmptyDeletesHash() {
	s.Require().NoError(s.store.Save(s.ctx, store.Snapshot{"a": "SPEED_PLUS"}))
	s.Require().NoError(s.store.Save(s.ctx, store.Snapshot{}))

	s.False(s.miniRedis.Exists(redisstore.DefaultKey))
}

func (s *RedisStoreTestSuite) TestCustomKey() {
	st, err := redisstore.New(&redisstore.Config{Client: s.client, Key: "lobby:traits"})
	s.Require().NoError(err)

	s.Require().NoError(st.Save(s.ctx, store.Snapshot{"a": "VISION_PLUS"}))
	s.True(s.miniRedis.Exists("lobby:traits"))
	s.False(s.miniRedis.Exists(redisstore.DefaultKey))
}

func (s *RedisStoreTestSuite) TestServerUnavailable() {
	s.miniRedis.Close()

	_, err := s.store.Load(s.ctx)
	s.Error(err)
	s.Error(s.store.Save(s.ctx, store.Snapshot{"a": "SPEED_PLUS"}))
}

func (s *RedisStoreTestSuite) TestConfigValidation() {
	_, err := redisstore.New(nil)
	s.Error(err)
	_, err = redisstore.New(&redisstore.Config{})
	s.Error(err)
	_, err = redisstore.Dial("", nil)
	s.Error(err)
}
