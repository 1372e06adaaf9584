package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/hillking/richgetricher/internal/common/clock"
	"github.com/hillking/richgetricher/internal/handlers/discord"
	"github.com/hillking/richgetricher/internal/ledger"
	gameRepo "github.com/hillking/richgetricher/internal/repositories/game"
	lobbyRepo "github.com/hillking/richgetricher/internal/repositories/lobby"
	gameService "github.com/hillking/richgetricher/internal/services/game"
)

func main() {
	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize the block clock
	blockClock := &clock.IntervalClock{
		Genesis:  getEnvTime("GENESIS", time.Unix(0, 0)),
		Interval: getEnvDuration("BLOCK_INTERVAL", 10*time.Second),
	}

	// Initialize repositories
	lobbyRepository, err := lobbyRepo.NewRedis(&lobbyRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create lobby repository: %v", err)
	}

	gameRepository, err := gameRepo.NewRedis(&gameRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create game repository: %v", err)
	}

	// Initialize the token ledger
	tokenLedger, err := ledger.NewRedis(&ledger.Config{
		RedisClient: redisClient,
		Clock:       blockClock,
	})
	if err != nil {
		log.Fatalf("Failed to create ledger: %v", err)
	}

	// Initialize game service
	gameSvc, err := gameService.New(&gameService.Config{
		LobbyRepo: lobbyRepository,
		GameRepo:  gameRepository,
		Ledger:    tokenLedger,
		Clock:     blockClock,
	})
	if err != nil {
		log.Fatalf("Failed to create game service: %v", err)
	}

	// Get Discord token from environment
	discordToken := getEnv("DISCORD_TOKEN", "")
	if discordToken == "" {
		log.Fatal("DISCORD_TOKEN environment variable is required")
	}

	// Get application ID for the bot
	applicationID := getEnv("APPLICATION_ID", "")

	// Get optional guild ID for development
	guildID := getEnv("GUILD_ID", "")

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Token:         discordToken,
		ApplicationID: applicationID,
		GuildID:       guildID,
		GameService:   gameSvc,
		Ledger:        tokenLedger,
		Clock:         blockClock,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Optionally settle expired games in the background. Without this,
	// games still settle on demand via the settle subcommand.
	stopSweep := make(chan struct{})
	if sweepInterval := getEnvDuration("SWEEP_INTERVAL", 0); sweepInterval > 0 {
		go runSweeper(gameSvc, sweepInterval, stopSweep)
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	close(stopSweep)

	// Shutdown the bot
	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot has been shut down")
}

// runSweeper settles expired games on a fixed interval until stopped
func runSweeper(svc gameService.Service, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			output, err := svc.SweepExpired(context.Background(), &gameService.SweepExpiredInput{})
			if err != nil {
				log.Printf("Sweep failed: %v", err)
				continue
			}
			if len(output.SettledGameIDs) > 0 {
				log.Printf("Swept %d expired game(s): %v", len(output.SettledGameIDs), output.SettledGameIDs)
			}
		case <-stop:
			return
		}
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return parsed
}

// getEnvTime gets a unix-seconds environment variable or returns a default value
func getEnvTime(key string, defaultValue time.Time) time.Time {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return time.Unix(seconds, 0)
}
