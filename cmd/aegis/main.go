package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/aegis-auth/aegis/adapters/events"
	"github.com/aegis-auth/aegis/adapters/hasher"
	"github.com/aegis-auth/aegis/adapters/store"
	"github.com/aegis-auth/aegis/adapters/tokenizer"
	"github.com/aegis-auth/aegis/internal/config"
	"github.com/aegis-auth/aegis/ports"
	"github.com/aegis-auth/aegis/service"
	"github.com/aegis-auth/aegis/transport/http"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	passwordHasher, err := hasher.NewArgon2(hasher.DefaultConfig())
	if err != nil {
		logger.Error("failed to create password hasher", slog.String("error", err.Error()))
		os.Exit(1)
	}

	jwtTokenizer, err := tokenizer.NewJWTTokenizer(tokenizer.Config{
		SigningKey: []byte(cfg.Auth.JWTSecret),
		TokenTTL:   cfg.Auth.TokenTTL,
	})
	if err != nil {
		logger.Error("failed to create tokenizer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	wmLogger := watermill.NewStdLogger(false, false)

	var (
		bannedTokens ports.BannedTokenStore
		twoFACodes   ports.TwoFACodeStore
		publisher    message.Publisher
	)

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("failed to parse redis url", slog.String("error", err.Error()))
			os.Exit(1)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}

		bannedTokens = store.NewRedisBannedTokenStore(redisClient)
		twoFACodes = store.NewRedisTwoFACodeStore(redisClient)

		publisher, err = redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			wmLogger,
		)
		if err != nil {
			logger.Error("failed to create redis publisher", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("using redis backends")
	} else {
		bannedTokens = store.NewMemoryBannedTokenStore()
		twoFACodes = store.NewMemoryTwoFACodeStore()
		publisher = gochannel.NewGoChannel(gochannel.Config{}, wmLogger)

		logger.Info("using in-memory token and challenge stores")
	}

	var users ports.UserStore
	if cfg.Database.URL != "" {
		if err := store.MigrateUp(cfg.Database.URL, logger); err != nil {
			logger.Error("failed to migrate database", slog.String("error", err.Error()))
			os.Exit(1)
		}

		pool, err := store.NewPostgresPool(ctx, cfg.Database.URL, logger)
		if err != nil {
			logger.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		users = store.NewPostgresUserStore(pool, passwordHasher)
		logger.Info("using postgres user store")
	} else {
		users = store.NewMemoryUserStore(passwordHasher)
		logger.Info("using in-memory user store")
	}

	authService := service.NewAuthService(
		users,
		bannedTokens,
		twoFACodes,
		jwtTokenizer,
		passwordHasher,
		events.NewWatermillPublisher(publisher),
		logger,
	)

	router := http.SetupRouter(authService)

	logger.Info("starting server", slog.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
