package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hillking/richgetricher/internal/models"
)

const (
	// Key prefixes for Redis
	gameKeyPrefix = "game_record:"
	gameCountKey  = "game_count"
	openGamesKey  = "open_games"
	expiryIndex   = "expiry_index" // open games scored by expiry height
)

// ErrGameNotFound is returned when a game is not found
var ErrGameNotFound = errors.New("game not found")

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed game repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// NextID allocates the next sequential game id
func (r *redisRepository) NextID(ctx context.Context, input *NextIDInput) (uint64, error) {
	id, err := r.client.Incr(ctx, gameCountKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate game id: %w", err)
	}

	return uint64(id), nil
}

// Save persists a game to Redis
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}

	if input.Game.ID == 0 {
		return errors.New("game ID cannot be zero")
	}

	// Marshal the game to JSON
	gameJSON, err := json.Marshal(input.Game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	// Create a Redis transaction
	pipe := r.client.Pipeline()

	// Save the game
	gameKey := fmt.Sprintf("%s%d", gameKeyPrefix, input.Game.ID)
	pipe.Set(ctx, gameKey, gameJSON, 0) // Games are retained indefinitely

	// Track unsettled games in the open set and the expiry index
	if input.Game.Settled {
		pipe.SRem(ctx, openGamesKey, input.Game.ID)
		pipe.ZRem(ctx, expiryIndex, input.Game.ID)
	} else {
		pipe.SAdd(ctx, openGamesKey, input.Game.ID)
		pipe.ZAdd(ctx, expiryIndex, redis.Z{
			Score:  float64(input.Game.ExpiresAt),
			Member: input.Game.ID,
		})
	}

	// Execute the transaction
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// Get retrieves a game by id from Redis
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*models.Game, error) {
	if input == nil || input.GameID == 0 {
		return nil, errors.New("input and game ID cannot be empty")
	}

	// Get the game from Redis
	gameKey := fmt.Sprintf("%s%d", gameKeyPrefix, input.GameID)
	gameJSON, err := r.client.Get(ctx, gameKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	// Unmarshal the game from JSON
	var game models.Game
	if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

// GetMany retrieves games by id, preserving input order
func (r *redisRepository) GetMany(ctx context.Context, input *GetManyInput) ([]*models.Game, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if len(input.GameIDs) == 0 {
		return []*models.Game{}, nil
	}

	// Get all games in one round trip
	pipe := r.client.Pipeline()
	gameCommands := make([]*redis.StringCmd, 0, len(input.GameIDs))

	for _, gameID := range input.GameIDs {
		gameKey := fmt.Sprintf("%s%d", gameKeyPrefix, gameID)
		gameCommands = append(gameCommands, pipe.Get(ctx, gameKey))
	}

	// Execute the pipeline
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	// Process the results
	games := make([]*models.Game, 0, len(input.GameIDs))
	for i, cmd := range gameCommands {
		gameJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// The lobby's id list never references missing games, but a
				// hole must not fail the whole listing
				continue
			}
			return nil, fmt.Errorf("failed to get game %d: %w", input.GameIDs[i], err)
		}

		var game models.Game
		if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game %d: %w", input.GameIDs[i], err)
		}

		games = append(games, &game)
	}

	return games, nil
}

// ListExpired retrieves the unsettled games whose window has elapsed
func (r *redisRepository) ListExpired(ctx context.Context, input *ListExpiredInput) ([]*models.Game, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	// Expiry is inclusive: a game expires at its ExpiresAt height
	gameIDStrings, err := r.client.ZRangeByScore(ctx, expiryIndex, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", input.Height),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list expired games: %w", err)
	}

	if len(gameIDStrings) == 0 {
		return []*models.Game{}, nil
	}

	gameIDs := make([]uint64, 0, len(gameIDStrings))
	for _, idString := range gameIDStrings {
		var id uint64
		if _, err := fmt.Sscanf(idString, "%d", &id); err != nil {
			return nil, fmt.Errorf("failed to parse game id %q: %w", idString, err)
		}
		gameIDs = append(gameIDs, id)
	}

	return r.GetMany(ctx, &GetManyInput{GameIDs: gameIDs})
}
