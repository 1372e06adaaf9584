package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hillking/richgetricher/internal/common/clock"
	"github.com/hillking/richgetricher/internal/common/uuid"
	"github.com/hillking/richgetricher/internal/models"
)

const (
	// Key prefixes for Redis
	balanceKeyPrefix  = "balance:"
	transferKeyPrefix = "transfer:"
	historyKeyPrefix  = "history:"
)

// ErrInsufficientFunds is returned when a debit exceeds the source balance
var ErrInsufficientFunds = errors.New("insufficient funds")

// transferScript performs the conditional debit-and-credit in one atomic
// step so a failed transfer can never leave a partial balance change.
var transferScript = redis.NewScript(`
local bal = tonumber(redis.call('GET', KEYS[1]) or '0')
local amount = tonumber(ARGV[1])
if bal < amount then
	return 0
end
redis.call('DECRBY', KEYS[1], amount)
redis.call('INCRBY', KEYS[2], amount)
return 1
`)

// Config holds configuration for the Redis ledger
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Clock provides the block height stamped on transfer records
	Clock clock.Clock

	// UUIDGenerator provides transfer record ids
	UUIDGenerator uuid.UUID
}

// redisAdapter implements the Adapter interface using Redis
type redisAdapter struct {
	client        *redis.Client
	clock         clock.Clock
	uuidGenerator uuid.UUID
}

// NewRedis creates a new Redis-backed ledger
func NewRedis(cfg *Config) (*redisAdapter, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	uuidGenerator := cfg.UUIDGenerator
	if uuidGenerator == nil {
		uuidGenerator = uuid.New()
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisAdapter{
		client:        cfg.RedisClient,
		clock:         cfg.Clock,
		uuidGenerator: uuidGenerator,
	}, nil
}

// Transfer atomically moves Amount from one account to another
func (r *redisAdapter) Transfer(ctx context.Context, input *TransferInput) (*TransferOutput, error) {
	if input == nil || input.FromAccount == "" || input.ToAccount == "" {
		return nil, errors.New("input and accounts cannot be empty")
	}

	if input.Amount == 0 {
		return nil, errors.New("amount cannot be zero")
	}

	fromKey := fmt.Sprintf("%s%s", balanceKeyPrefix, input.FromAccount)
	toKey := fmt.Sprintf("%s%s", balanceKeyPrefix, input.ToAccount)

	// Run the conditional move
	moved, err := transferScript.Run(ctx, r.client, []string{fromKey, toKey}, input.Amount).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to execute transfer: %w", err)
	}

	if moved == 0 {
		return nil, ErrInsufficientFunds
	}

	// Write the audit record
	record := &models.TransferRecord{
		ID:          r.uuidGenerator.NewUUID(),
		FromAccount: input.FromAccount,
		ToAccount:   input.ToAccount,
		Amount:      input.Amount,
		Height:      r.clock.Height(),
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transfer record: %w", err)
	}

	pipe := r.client.Pipeline()

	recordKey := fmt.Sprintf("%s%s", transferKeyPrefix, record.ID)
	pipe.Set(ctx, recordKey, recordJSON, 0)

	// Index the record for both accounts, scored by height
	for _, account := range []string{input.FromAccount, input.ToAccount} {
		historyKey := fmt.Sprintf("%s%s", historyKeyPrefix, account)
		pipe.ZAdd(ctx, historyKey, redis.Z{
			Score:  float64(record.Height),
			Member: record.ID,
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to record transfer: %w", err)
	}

	return &TransferOutput{
		RecordID: record.ID,
	}, nil
}

// Deposit credits an account out of thin air
func (r *redisAdapter) Deposit(ctx context.Context, input *DepositInput) error {
	if input == nil || input.Account == "" {
		return errors.New("input and account cannot be empty")
	}

	balanceKey := fmt.Sprintf("%s%s", balanceKeyPrefix, input.Account)
	if err := r.client.IncrBy(ctx, balanceKey, int64(input.Amount)).Err(); err != nil {
		return fmt.Errorf("failed to deposit: %w", err)
	}

	return nil
}

// GetBalance retrieves the current balance of an account
func (r *redisAdapter) GetBalance(ctx context.Context, input *GetBalanceInput) (*GetBalanceOutput, error) {
	if input == nil || input.Account == "" {
		return nil, errors.New("input and account cannot be empty")
	}

	balanceKey := fmt.Sprintf("%s%s", balanceKeyPrefix, input.Account)
	balance, err := r.client.Get(ctx, balanceKey).Uint64()
	if err != nil {
		if err == redis.Nil {
			// Unknown accounts hold nothing
			return &GetBalanceOutput{Balance: 0}, nil
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return &GetBalanceOutput{
		Balance: balance,
	}, nil
}

// GetHistory retrieves the most recent transfers touching an account
func (r *redisAdapter) GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	if input == nil || input.Account == "" {
		return nil, errors.New("input and account cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit) - 1
	}

	// Newest first
	historyKey := fmt.Sprintf("%s%s", historyKeyPrefix, input.Account)
	recordIDs, err := r.client.ZRevRange(ctx, historyKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer history: %w", err)
	}

	if len(recordIDs) == 0 {
		return &GetHistoryOutput{
			Records: []*models.TransferRecord{},
		}, nil
	}

	// Fetch the records in one round trip
	pipe := r.client.Pipeline()
	recordCommands := make([]*redis.StringCmd, 0, len(recordIDs))

	for _, recordID := range recordIDs {
		recordKey := fmt.Sprintf("%s%s", transferKeyPrefix, recordID)
		recordCommands = append(recordCommands, pipe.Get(ctx, recordKey))
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get transfer records: %w", err)
	}

	records := make([]*models.TransferRecord, 0, len(recordIDs))
	for i, cmd := range recordCommands {
		recordJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Record expired between the index read and the fetch
				continue
			}
			return nil, fmt.Errorf("failed to get transfer record %s: %w", recordIDs[i], err)
		}

		var record models.TransferRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transfer record %s: %w", recordIDs[i], err)
		}

		records = append(records, &record)
	}

	return &GetHistoryOutput{
		Records: records,
	}, nil
}
