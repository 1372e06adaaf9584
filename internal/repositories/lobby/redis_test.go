package lobby

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

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	lobby := &models.Lobby{
		Name:      "My lobby name",
		EntryFee:  10,
		GameIDs:   []uint64{},
		CreatedAt: 1,
	}

	err := s.repo.Create(context.Background(), &CreateInput{
		Lobby: lobby,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.Get(context.Background(), &GetInput{})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("My lobby name", retrieved.Name)
	s.Equal(uint64(10), retrieved.EntryFee)
	s.Empty(retrieved.GameIDs)
	s.Equal(uint64(1), retrieved.CreatedAt)
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(context.Background(), &GetInput{})
	s.Require().ErrorIs(err, ErrLobbyNotFound)
}

func (s *RedisRepositoryTestSuite) TestCreateTwice() {
	first := &models.Lobby{
		Name:     "First lobby",
		EntryFee: 10,
	}

	err := s.repo.Create(context.Background(), &CreateInput{
		Lobby: first,
	})
	s.Require().NoError(err)

	// The second create must fail and leave the first lobby intact
	err = s.repo.Create(context.Background(), &CreateInput{
		Lobby: &models.Lobby{Name: "Second lobby", EntryFee: 99},
	})
	s.Require().ErrorIs(err, ErrLobbyExists)

	retrieved, err := s.repo.Get(context.Background(), &GetInput{})
	s.Require().NoError(err)
	s.Equal("First lobby", retrieved.Name)
	s.Equal(uint64(10), retrieved.EntryFee)
}

func (s *RedisRepositoryTestSuite) TestSaveAppendsGameIDs() {
	lobby := &models.Lobby{
		Name:     "My lobby name",
		EntryFee: 10,
	}

	err := s.repo.Create(context.Background(), &CreateInput{
		Lobby: lobby,
	})
	s.Require().NoError(err)

	lobby.GameIDs = append(lobby.GameIDs, 1, 2)
	err = s.repo.Save(context.Background(), &SaveInput{
		Lobby: lobby,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.Get(context.Background(), &GetInput{})
	s.Require().NoError(err)
	s.Equal([]uint64{1, 2}, retrieved.GameIDs)
}

func (s *RedisRepositoryTestSuite) TestSaveWithoutCreate() {
	err := s.repo.Save(context.Background(), &SaveInput{
		Lobby: &models.Lobby{Name: "ghost"},
	})
	s.Require().ErrorIs(err, ErrLobbyNotFound)
}
