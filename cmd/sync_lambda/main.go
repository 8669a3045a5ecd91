package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/khoapp/storefront/pkg/catalog"
	"github.com/khoapp/storefront/pkg/config"
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

var syncer *catalog.Syncer

// Scheduled runs only pick up what landed since the previous tick, with a
// little overlap for missed runs.
const syncWindow = 25 * time.Hour

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store, err := newLedgerStore(cfg)
	if err != nil {
		log.Fatalf("unable to build ledger store: %v", err)
	}
	syncer = catalog.NewSyncer(store, catalog.NewHTTPFeed(nil, cfg.AppFeedURL), logger)
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting catalog sync...")

	result, err := syncer.Sync(ctx, syncWindow)
	if err != nil {
		log.Printf("ERROR: catalog sync failed: %v", err)
		return err
	}

	log.Printf("Catalog sync finished: %d new, %d total", result.New, result.Total)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
