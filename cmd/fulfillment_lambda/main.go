package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/khoapp/storefront/pkg/config"
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

var reconciler *reconcile.Reconciler

func init() {
	// Load environment variables from .env file (useful for local testing).
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store, err := newLedgerStore(cfg)
	if err != nil {
		log.Fatalf("unable to build ledger store: %v", err)
	}
	feed := sepay.New(nil, cfg.SePayToken)

	reconciler = reconcile.New(store, feed, logger)
	reconciler.PollWindow = cfg.SePayPollWindow
}

// HandleRequest processes queued fulfillment jobs and applies them to the
// ledgers.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var job scheduler.FulfillmentJob
		if err := json.Unmarshal([]byte(message.Body), &job); err != nil {
			log.Printf("ERROR: failed to unmarshal fulfillment job from SQS message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		if err := reconciler.ApplyPayment(ctx, job.Content, job.Amount); err != nil {
			log.Printf("ERROR: failed to apply payment %q: %v", job.Content, err)
			// The workflow is idempotent, so an SQS redelivery is safe.
			return err
		}

		log.Printf("Successfully applied payment %q", job.Content)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
