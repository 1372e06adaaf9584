package lobby

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hillking/richgetricher/internal/models"
)

// lobbyKey is the fixed key holding the single lobby of a deployment
const lobbyKey = "lobby"

// ErrLobbyNotFound is returned when no lobby has been created yet
var ErrLobbyNotFound = errors.New("lobby not found")

// ErrLobbyExists is returned when a lobby has already been created
var ErrLobbyExists = errors.New("lobby already exists")

// Config holds configuration for the Redis lobby repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed lobby repository
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

// Create stores the lobby if and only if none exists yet
func (r *redisRepository) Create(ctx context.Context, input *CreateInput) error {
	if input == nil || input.Lobby == nil {
		return errors.New("input and lobby cannot be nil")
	}

	if input.Lobby.Name == "" {
		return errors.New("lobby name cannot be empty")
	}

	// Marshal the lobby to JSON
	lobbyJSON, err := json.Marshal(input.Lobby)
	if err != nil {
		return fmt.Errorf("failed to marshal lobby: %w", err)
	}

	// SETNX gives the create-exactly-once guarantee
	created, err := r.client.SetNX(ctx, lobbyKey, lobbyJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create lobby: %w", err)
	}

	if !created {
		return ErrLobbyExists
	}

	return nil
}

// Get retrieves the lobby
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*models.Lobby, error) {
	lobbyJSON, err := r.client.Get(ctx, lobbyKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrLobbyNotFound
		}
		return nil, fmt.Errorf("failed to get lobby: %w", err)
	}

	// Unmarshal the lobby from JSON
	var lobby models.Lobby
	if err := json.Unmarshal([]byte(lobbyJSON), &lobby); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lobby: %w", err)
	}

	return &lobby, nil
}

// Save persists lobby mutations
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Lobby == nil {
		return errors.New("input and lobby cannot be nil")
	}

	// Marshal the lobby to JSON
	lobbyJSON, err := json.Marshal(input.Lobby)
	if err != nil {
		return fmt.Errorf("failed to marshal lobby: %w", err)
	}

	// Only an existing lobby may be saved; Create owns first insertion
	saved, err := r.client.SetXX(ctx, lobbyKey, lobbyJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save lobby: %w", err)
	}

	if !saved {
		return ErrLobbyNotFound
	}

	return nil
}
