package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/khoapp/storefront/pkg/catalog"
	"github.com/khoapp/storefront/pkg/config"
	"github.com/khoapp/storefront/pkg/handlers/admin"
	"github.com/khoapp/storefront/pkg/handlers/assets"
	"github.com/khoapp/storefront/pkg/handlers/gateway"
	"github.com/khoapp/storefront/pkg/handlers/orders"
	"github.com/khoapp/storefront/pkg/middleware"
	"github.com/khoapp/storefront/pkg/notify"
	"github.com/khoapp/storefront/pkg/payments/payos"
	"github.com/khoapp/storefront/pkg/payments/sepay"
	"github.com/khoapp/storefront/pkg/reconcile"
	"github.com/khoapp/storefront/pkg/scheduler"
	"github.com/khoapp/storefront/pkg/storage"
	dynamostore "github.com/khoapp/storefront/pkg/storage/dynamodb"
	"github.com/khoapp/storefront/pkg/storage/githubstore"
)

// newLedgerStore picks the document store backend from configuration.
func newLedgerStore(cfg *config.Config) (storage.LedgerStore, error) {
	if cfg.StorageBackend == config.BackendDynamoDB {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			return nil, err
		}
		return dynamostore.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable, dynamostore.DefaultPaths()), nil
	}
	return githubstore.New(nil, cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubBranch, githubstore.DefaultPaths()), nil
}

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Ledger store: GitHub-backed by default, DynamoDB when selected.
	store, err := newLedgerStore(cfg)
	if err != nil {
		log.Fatalf("unable to build ledger store: %v", err)
	}

	// Payment feed and reconciliation workflow.
	feed := sepay.New(nil, cfg.SePayToken)
	reconciler := reconcile.New(store, feed, logger)
	reconciler.PollWindow = cfg.SePayPollWindow

	// Fulfillment scheduler: SQS when a queue is configured, otherwise
	// in-process goroutines.
	var sched scheduler.Scheduler
	if cfg.SQSQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		sched = scheduler.NewSQSScheduler(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL)
	} else {
		sched = scheduler.NewInlineScheduler(reconciler, logger)
	}

	// Gateway clients and notifications.
	payOSClient := payos.New(nil, cfg.PayOSClientID, cfg.PayOSAPIKey, cfg.PayOSChecksumKey)
	telegram := notify.NewTelegram(nil, cfg.TelegramBotToken, cfg.TelegramChatID)

	// Catalog sync.
	syncer := catalog.NewSyncer(store, catalog.NewHTTPFeed(nil, cfg.AppFeedURL), logger)

	// Handlers.
	ordersHandler := orders.NewOrdersHandler(reconciler, sched, logger)
	gatewayHandler := gateway.NewGatewayHandler(payOSClient, telegram, sched, cfg.PayOSReturnURL, logger)
	adminHandler := admin.NewAdminHandler(cfg.AdminPassword, cfg.AdminSecret, logger)
	assetsHandler := assets.NewAssetsHandler(store, syncer, cfg.AdminSecret, logger)

	// Create a new Chi router
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	router.Route("/orders", func(r chi.Router) {
		r.Post("/check", ordersHandler.CheckOrder)
		r.Post("/vpn", ordersHandler.CheckVPNOrder)
		r.Post("/vpn/status", ordersHandler.VPNStatus)
		r.Post("/webhook", ordersHandler.PaymentWebhook)
	})
	router.Route("/payments", func(r chi.Router) {
		r.Post("/create", gatewayHandler.CreatePayment)
		r.Post("/notify", gatewayHandler.BankNotification)
	})
	router.Post("/admin/login", adminHandler.Login)
	router.Route("/assets", func(r chi.Router) {
		r.With(middleware.AdminOnly(cfg.AdminSecret)).Post("/upload", assetsHandler.Upload)
		// Sync authenticates inside the handler: admin cookie or botSync.
		r.Post("/sync", assetsHandler.Sync)
	})

	logger.Info("starting server", slog.String("port", cfg.HTTPPort))

	// Start the server
	err = http.ListenAndServe(":"+cfg.HTTPPort, router)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
