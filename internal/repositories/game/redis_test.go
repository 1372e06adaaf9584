package game

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/hillking/richgetricher/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) testGame(id uint64) *models.Game {
	return &models.Game{
		ID:          id,
		Name:        "My game name",
		CreatorID:   "p1",
		EntryAmount: 50,
		Leader:      "p1",
		HighestBid:  50,
		Message:     "",
		Pot:         50,
		Duration:    180,
		CreatedAt:   1,
		ExpiresAt:   181,
		Settled:     false,
	}
}

func (s *RedisRepositoryTestSuite) TestNextID() {
	first, err := s.repo.NextID(context.Background(), &NextIDInput{})
	s.Require().NoError(err)
	s.Equal(uint64(1), first)

	second, err := s.repo.NextID(context.Background(), &NextIDInput{})
	s.Require().NoError(err)
	s.Equal(uint64(2), second)
}

func (s *RedisRepositoryTestSuite) TestSaveAndGet() {
	game := s.testGame(1)

	err := s.repo.Save(context.Background(), &SaveInput{
		Game: game,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.Get(context.Background(), &GetInput{
		GameID: 1,
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal(uint64(1), retrieved.ID)
	s.Equal("My game name", retrieved.Name)
	s.Equal("p1", retrieved.CreatorID)
	s.Equal(uint64(50), retrieved.EntryAmount)
	s.Equal("p1", retrieved.Leader)
	s.Equal(uint64(50), retrieved.HighestBid)
	s.Equal(uint64(50), retrieved.Pot)
	s.Equal(uint64(181), retrieved.ExpiresAt)
	s.False(retrieved.Settled)
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(context.Background(), &GetInput{
		GameID: 42,
	})
	s.Require().ErrorIs(err, ErrGameNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetManyPreservesOrder() {
	for _, id := range []uint64{1, 2, 3} {
		game := s.testGame(id)
		game.HighestBid = id * 100
		err := s.repo.Save(context.Background(), &SaveInput{Game: game})
		s.Require().NoError(err)
	}

	games, err := s.repo.GetMany(context.Background(), &GetManyInput{
		GameIDs: []uint64{1, 2, 3},
	})
	s.Require().NoError(err)
	s.Require().Len(games, 3)

	s.Equal(uint64(1), games[0].ID)
	s.Equal(uint64(2), games[1].ID)
	s.Equal(uint64(3), games[2].ID)
	s.Equal(uint64(200), games[1].HighestBid)
}

func (s *RedisRepositoryTestSuite) TestGetManyEmpty() {
	games, err := s.repo.GetMany(context.Background(), &GetManyInput{})
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *RedisRepositoryTestSuite) TestListExpired() {
	early := s.testGame(1)
	early.ExpiresAt = 100

	late := s.testGame(2)
	late.ExpiresAt = 200

	for _, game := range []*models.Game{early, late} {
		err := s.repo.Save(context.Background(), &SaveInput{Game: game})
		s.Require().NoError(err)
	}

	// At height 99 nothing has expired
	expired, err := s.repo.ListExpired(context.Background(), &ListExpiredInput{
		Height: 99,
	})
	s.Require().NoError(err)
	s.Empty(expired)

	// At the expiry height the first game is expired
	expired, err = s.repo.ListExpired(context.Background(), &ListExpiredInput{
		Height: 100,
	})
	s.Require().NoError(err)
	s.Require().Len(expired, 1)
	s.Equal(uint64(1), expired[0].ID)

	// At height 200 both are expired
	expired, err = s.repo.ListExpired(context.Background(), &ListExpiredInput{
		Height: 200,
	})
	s.Require().NoError(err)
	s.Len(expired, 2)
}

func (s *RedisRepositoryTestSuite) TestSettledGameLeavesIndexes() {
	game := s.testGame(1)
	game.ExpiresAt = 100

	err := s.repo.Save(context.Background(), &SaveInput{Game: game})
	s.Require().NoError(err)

	// Settle the game and save again
	game.Settled = true
	game.Pot = 0
	err = s.repo.Save(context.Background(), &SaveInput{Game: game})
	s.Require().NoError(err)

	// A settled game no longer shows up as expired-and-open
	expired, err := s.repo.ListExpired(context.Background(), &ListExpiredInput{
		Height: 1000,
	})
	s.Require().NoError(err)
	s.Empty(expired)

	// But it is still retrievable for historical queries
	retrieved, err := s.repo.Get(context.Background(), &GetInput{GameID: 1})
	s.Require().NoError(err)
	s.True(retrieved.Settled)
	s.Equal(uint64(0), retrieved.Pot)
}
