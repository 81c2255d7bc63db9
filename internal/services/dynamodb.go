package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBStore is a CollectionStore backed by a single DynamoDB table. Each
// collection is one item keyed by collection name, with the serialized
// document in a binary attribute. The whole-collection read-modify-write
// semantics are identical to the S3 store.
type DynamoDBStore struct {
	client    *dynamodb.Client
	tableName string
}

// collectionItem is the DynamoDB item layout for one collection
type collectionItem struct {
	CollectionKey string    `dynamodbav:"collection_key"`
	Document      []byte    `dynamodbav:"document"`
	UpdatedAt     time.Time `dynamodbav:"updated_at"`
}

// NewDynamoDBStore creates a DynamoDB store from the default AWS
// configuration. The table comes from COLLECTIONS_TABLE with a development
// default.
func NewDynamoDBStore(ctx context.Context) (*DynamoDBStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	tableName := os.Getenv("COLLECTIONS_TABLE")
	if tableName == "" {
		tableName = "date-night-planner-collections"
	}

	return &DynamoDBStore{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: tableName,
	}, nil
}

// NewDynamoDBStoreWithClient creates a DynamoDB store with an existing client
func NewDynamoDBStoreWithClient(client *dynamodb.Client, tableName string) *DynamoDBStore {
	return &DynamoDBStore{
		client:    client,
		tableName: tableName,
	}
}

// GetCollection reads one collection document from the table
func (d *DynamoDBStore) GetCollection(ctx context.Context, key string) ([]byte, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"collection_key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get collection item: %w", err)
	}

	if result.Item == nil {
		return nil, ErrCollectionNotFound
	}

	var item collectionItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collection item: %w", err)
	}

	return item.Document, nil
}

// PutCollection replaces one collection document in the table
func (d *DynamoDBStore) PutCollection(ctx context.Context, key string, data []byte) error {
	item, err := attributevalue.MarshalMap(collectionItem{
		CollectionKey: key,
		Document:      data,
		UpdatedAt:     time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal collection item: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put collection item: %w", err)
	}

	return nil
}

// GetTableName returns the configured table name
func (d *DynamoDBStore) GetTableName() string {
	return d.tableName
}
