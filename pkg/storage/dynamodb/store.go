// Package dynamodb implements the ledger document store on a DynamoDB
// table, as a drop-in substitute for the GitHub-backed store. Each document
// path maps to one item holding the serialized JSON array plus a numeric
// version; optimistic concurrency uses a conditional write on that version.
package dynamodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/khoapp/storefront/pkg/storage"
)

// DynamoDBAPI abstracts the DynamoDB client operations the store uses,
// so tests can substitute a mock.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Paths locates the well-known ledger documents; they serve as partition
// keys so both backends address documents the same way.
type Paths struct {
	VPNAccounts string
	LicenseKeys string
	AppAssets   string
}

// DefaultPaths returns the same document layout the GitHub store uses, so
// the two backends are interchangeable without remapping keys.
func DefaultPaths() Paths {
	return Paths{
		VPNAccounts: "public/data/vpn_data.json",
		LicenseKeys: "public/data/keys.json",
		AppAssets:   "public/data/ipa.json",
	}
}

// Store implements the storage interfaces using a DynamoDB documents table.
type Store struct {
	Client    DynamoDBAPI
	TableName string
	Paths     Paths
}

// New creates a new Store.
func New(client DynamoDBAPI, tableName string, paths Paths) *Store {
	return &Store{Client: client, TableName: tableName, Paths: paths}
}

// Make sure we conform to the interface
var _ storage.LedgerStore = (*Store)(nil)

// documentRecord is the table shape: one item per document path.
type documentRecord struct {
	Path      string    `dynamodbav:"path"`
	Items     string    `dynamodbav:"items"`
	Version   int64     `dynamodbav:"version"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// getRecord fetches the record for path, mapping a missing item to
// storage.ErrNotFound.
func (s *Store) getRecord(ctx context.Context, path string) (*documentRecord, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"path": path})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document key: %w", err)
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.TableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s from DynamoDB: %w", path, err)
	}
	if out.Item == nil {
		return nil, storage.ErrNotFound
	}

	var record documentRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document record %s: %w", path, err)
	}
	return &record, nil
}

// readDocument loads and parses the array stored at path into dst, returning
// the version token. Parse failures map to ErrCorruptDocument.
func (s *Store) readDocument(ctx context.Context, path string, dst any) (storage.Version, error) {
	record, err := s.getRecord(ctx, path)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal([]byte(record.Items), dst); err != nil {
		return "", fmt.Errorf("%w: %s: %v", storage.ErrCorruptDocument, path, err)
	}
	return storage.Version(strconv.FormatInt(record.Version, 10)), nil
}

// writeDocument stores items at path, guarded by the expected version. The
// zero version creates the item and fails if one already exists.
func (s *Store) writeDocument(ctx context.Context, path string, items any, expected storage.Version) (storage.Version, error) {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal document %s: %w", path, err)
	}

	var expectedVersion int64
	if expected.Exists() {
		expectedVersion, err = strconv.ParseInt(string(expected), 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid version token %q: %w", expected, err)
		}
	}
	next := expectedVersion + 1

	record := documentRecord{
		Path:      path,
		Items:     string(data),
		Version:   next,
		UpdatedAt: time.Now().UTC(),
	}
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document record %s: %w", path, err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.TableName),
		Item:      item,
	}
	if expected.Exists() {
		input.ConditionExpression = aws.String("version = :expected")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		}
	} else {
		input.ConditionExpression = aws.String("attribute_not_exists(#path)")
		input.ExpressionAttributeNames = map[string]string{"#path": "path"}
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return "", storage.ErrConflict
		}
		return "", fmt.Errorf("failed to write document %s to DynamoDB: %w", path, err)
	}
	return storage.Version(strconv.FormatInt(next, 10)), nil
}
