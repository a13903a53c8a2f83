package main

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Kurooo23/AsiqTIX/adapters/events"
	"github.com/Kurooo23/AsiqTIX/adapters/price"
	"github.com/Kurooo23/AsiqTIX/adapters/repo"
	"github.com/Kurooo23/AsiqTIX/adapters/siwe"
	"github.com/Kurooo23/AsiqTIX/adapters/storage"
	"github.com/Kurooo23/AsiqTIX/adapters/store"
	"github.com/Kurooo23/AsiqTIX/adapters/tokenizer"
	"github.com/Kurooo23/AsiqTIX/internal/config"
	"github.com/Kurooo23/AsiqTIX/ports"
	"github.com/Kurooo23/AsiqTIX/service"
	httptransport "github.com/Kurooo23/AsiqTIX/transport/http"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	db, err := repo.Open(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("connect mysql: %v", err)
	}
	defer db.Close()

	admins := repo.NewAdminRepo(db)
	eventRepo := repo.NewEventRepo(db)
	txRepo := repo.NewTransactionRepo(db)

	seedAdmins(ctx, admins, cfg.AdminAddresses)

	// REDIS_URL selects the shared nonce store for multi-instance
	// deployments; without it a single instance keeps nonces in memory.
	var redisClient *redis.Client
	var nonces ports.NonceStore
	var publisher ports.EventPublisher

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("parse redis url: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("connect redis: %v", err)
		}

		nonces = store.NewRedisStore(redisClient, cfg.NonceTTL)

		wmPublisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Fatalf("create publisher: %v", err)
		}
		publisher = events.NewWatermillPublisher(wmPublisher)
	} else {
		memStore := store.NewMemoryStore(cfg.NonceTTL)
		memStore.StartSweep(ctx, time.Minute)
		nonces = memStore
	}

	verifier := siwe.NewVerifier(nonces, cfg.SIWEDomain, cfg.ChainID)
	tk := tokenizer.NewJWTTokenizer([]byte(cfg.JWTSecret), cfg.SessionTTL)
	authService := service.NewAuthService(nonces, verifier, tk, admins)

	priceService := service.NewPriceService(
		price.SpotSources(nil), price.FXSources(nil), cfg.StaticPriceIDR)

	files, err := storage.NewDiskStore(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		log.Fatalf("init upload dir: %v", err)
	}

	router := httptransport.SetupRouter(httptransport.RouterDeps{
		Auth:      authService,
		Prices:    priceService,
		Admins:    admins,
		Events:    eventRepo,
		Txs:       txRepo,
		Publisher: publisher,
		Files:     files,
		Redis:     redisClient,
		StaticDir: files.Root(),
		Cfg:       cfg,
	})

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func seedAdmins(ctx context.Context, admins ports.AdminRegistry, addresses []string) {
	for _, addr := range addresses {
		if err := admins.Add(ctx, addr, "seeded-from-env"); err != nil {
			log.Printf("seed admin %s: %v", addr, err)
		}
	}
}
