package ledger

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

// stubClock reports a fixed block height
type stubClock struct {
	height uint64
}

func (c *stubClock) Height() uint64 {
	return c.height
}

type RedisLedgerTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	clock  *stubClock
	ledger Adapter
}

func (s *RedisLedgerTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	s.clock = &stubClock{height: 100}

	// Create the ledger
	adapter, err := NewRedis(&Config{
		RedisClient: s.client,
		Clock:       s.clock,
	})
	s.Require().NoError(err)
	s.ledger = adapter
}

func (s *RedisLedgerTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(RedisLedgerTestSuite))
}

func (s *RedisLedgerTestSuite) TestDepositAndGetBalance() {
	ctx := context.Background()

	err := s.ledger.Deposit(ctx, &DepositInput{
		Account: "p1",
		Amount:  500,
	})
	s.Require().NoError(err)

	balance, err := s.ledger.GetBalance(ctx, &GetBalanceInput{
		Account: "p1",
	})
	s.Require().NoError(err)
	s.Equal(uint64(500), balance.Balance)
}

func (s *RedisLedgerTestSuite) TestGetBalanceUnknownAccount() {
	balance, err := s.ledger.GetBalance(context.Background(), &GetBalanceInput{
		Account: "nobody",
	})
	s.Require().NoError(err)
	s.Equal(uint64(0), balance.Balance)
}

func (s *RedisLedgerTestSuite) TestTransfer() {
	ctx := context.Background()

	err := s.ledger.Deposit(ctx, &DepositInput{Account: "p1", Amount: 500})
	s.Require().NoError(err)

	output, err := s.ledger.Transfer(ctx, &TransferInput{
		FromAccount: "p1",
		ToAccount:   GameAccount(1),
		Amount:      300,
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(output.RecordID)

	fromBalance, err := s.ledger.GetBalance(ctx, &GetBalanceInput{Account: "p1"})
	s.Require().NoError(err)
	s.Equal(uint64(200), fromBalance.Balance)

	toBalance, err := s.ledger.GetBalance(ctx, &GetBalanceInput{Account: GameAccount(1)})
	s.Require().NoError(err)
	s.Equal(uint64(300), toBalance.Balance)
}

func (s *RedisLedgerTestSuite) TestTransferInsufficientFunds() {
	ctx := context.Background()

	err := s.ledger.Deposit(ctx, &DepositInput{Account: "p1", Amount: 100})
	s.Require().NoError(err)

	_, err = s.ledger.Transfer(ctx, &TransferInput{
		FromAccount: "p1",
		ToAccount:   "p2",
		Amount:      101,
	})
	s.Require().ErrorIs(err, ErrInsufficientFunds)

	// Neither balance may have moved
	fromBalance, err := s.ledger.GetBalance(ctx, &GetBalanceInput{Account: "p1"})
	s.Require().NoError(err)
	s.Equal(uint64(100), fromBalance.Balance)

	toBalance, err := s.ledger.GetBalance(ctx, &GetBalanceInput{Account: "p2"})
	s.Require().NoError(err)
	s.Equal(uint64(0), toBalance.Balance)
}

func (s *RedisLedgerTestSuite) TestTransferFromEmptyAccount() {
	_, err := s.ledger.Transfer(context.Background(), &TransferInput{
		FromAccount: "nobody",
		ToAccount:   "p2",
		Amount:      1,
	})
	s.Require().ErrorIs(err, ErrInsufficientFunds)
}

func (s *RedisLedgerTestSuite) TestGetHistory() {
	ctx := context.Background()

	err := s.ledger.Deposit(ctx, &DepositInput{Account: "p1", Amount: 1000})
	s.Require().NoError(err)

	s.clock.height = 110
	first, err := s.ledger.Transfer(ctx, &TransferInput{
		FromAccount: "p1",
		ToAccount:   GameAccount(1),
		Amount:      100,
	})
	s.Require().NoError(err)

	s.clock.height = 120
	second, err := s.ledger.Transfer(ctx, &TransferInput{
		FromAccount: "p1",
		ToAccount:   GameAccount(2),
		Amount:      200,
	})
	s.Require().NoError(err)

	history, err := s.ledger.GetHistory(ctx, &GetHistoryInput{
		Account: "p1",
	})
	s.Require().NoError(err)
	s.Require().Len(history.Records, 2)

	// Newest first
	s.Equal(second.RecordID, history.Records[0].ID)
	s.Equal(uint64(200), history.Records[0].Amount)
	s.Equal(uint64(120), history.Records[0].Height)
	s.Equal(first.RecordID, history.Records[1].ID)
	s.Equal(GameAccount(1), history.Records[1].ToAccount)

	// The game escrow account sees the same record
	gameHistory, err := s.ledger.GetHistory(ctx, &GetHistoryInput{
		Account: GameAccount(1),
	})
	s.Require().NoError(err)
	s.Require().Len(gameHistory.Records, 1)
	s.Equal(first.RecordID, gameHistory.Records[0].ID)
}

func (s *RedisLedgerTestSuite) TestGetHistoryLimit() {
	ctx := context.Background()

	err := s.ledger.Deposit(ctx, &DepositInput{Account: "p1", Amount: 1000})
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		s.clock.height++
		_, err := s.ledger.Transfer(ctx, &TransferInput{
			FromAccount: "p1",
			ToAccount:   "p2",
			Amount:      10,
		})
		s.Require().NoError(err)
	}

	history, err := s.ledger.GetHistory(ctx, &GetHistoryInput{
		Account: "p1",
		Limit:   2,
	})
	s.Require().NoError(err)
	s.Len(history.Records, 2)
}
