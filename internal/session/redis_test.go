package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type entry struct {
	value string
	ttl   time.Duration
}

// fakeRedis хранит ключи в памяти. err, если задан, возвращается любой командой.
type fakeRedis struct {
	data map[string]entry
	err  error
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = entry{value: fmt.Sprint(value), ttl: expiration}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	e, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(e.value, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type StoreTestSuite struct {
	suite.Suite
	redis *fakeRedis
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.redis = &fakeRedis{data: make(map[string]entry)}
	s.store = NewStore(s.redis)
	s.store.newID = func() string { return "abc" }
}

func (s *StoreTestSuite) TestLifecycle() {
	sessionID, err := s.store.Create(s.T().Context(), 42, time.Hour)
	s.Require().NoError(err)
	s.Equal("abc", sessionID)
	s.Equal(entry{value: "42", ttl: time.Hour}, s.redis.data["session:abc"])

	userID, err := s.store.UserID(s.T().Context(), sessionID)
	s.Require().NoError(err)
	s.Equal(int64(42), userID)

	s.Require().NoError(s.store.Delete(s.T().Context(), sessionID))
	_, err = s.store.UserID(s.T().Context(), sessionID)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)

	// повторное закрытие
	s.Require().NoError(s.store.Delete(s.T().Context(), sessionID))
}

func (s *StoreTestSuite) TestUserID_Unknown() {
	_, err := s.store.UserID(s.T().Context(), "missing")
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)

	_, err = s.store.UserID(s.T().Context(), "")
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *StoreTestSuite) TestUserID_Malformed() {
	s.redis.data["session:abc"] = entry{value: "not-a-number"}

	_, err := s.store.UserID(s.T().Context(), "abc")
	s.Require().Error(err)
	s.Require().NotErrorIs(err, domain.ErrRecordNotFound)
}

func (s *StoreTestSuite) TestRedisFailure() {
	s.redis.err = errors.New("connection refused")

	_, err := s.store.Create(s.T().Context(), 1, time.Hour)
	s.Require().ErrorIs(err, s.redis.err)

	_, err = s.store.UserID(s.T().Context(), "abc")
	s.Require().ErrorIs(err, s.redis.err)
	s.Require().NotErrorIs(err, domain.ErrRecordNotFound)

	s.Require().ErrorIs(s.store.Delete(s.T().Context(), "abc"), s.redis.err)
}

func (s *StoreTestSuite) TestCreate_InvalidTTL() {
	_, err := s.store.Create(s.T().Context(), 1, 0)
	s.Require().Error(err)
	s.Empty(s.redis.data)
}
