package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoStore
type DynamoDBAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type dynamoItem struct {
	PK   string `dynamodbav:"pk"`
	Kind string `dynamodbav:"kind"`
	Key  string `dynamodbav:"key"`
	Body string `dynamodbav:"body"`
}

// DynamoStore keeps documents in a single table with partition key "pk"
// ("<kind>#<key>").
type DynamoStore struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoStore(client DynamoDBAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

func (s *DynamoStore) Name() string { return "dynamodb" }

func (s *DynamoStore) Close() error { return nil }

func partitionKey(kind, key string) string {
	return kind + "#" + key
}

func (s *DynamoStore) put(ctx context.Context, kind, key string, doc []byte) error {
	item, err := attributevalue.MarshalMap(dynamoItem{
		PK:   partitionKey(kind, key),
		Kind: kind,
		Key:  key,
		Body: string(doc),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", kind, key, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to write %s %s: %w", kind, key, err)
	}
	return nil
}

func (s *DynamoStore) get(ctx context.Context, kind, key string) ([]byte, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: partitionKey(kind, key)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s: %w", kind, key, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s %s: %w", kind, key, err)
	}
	return []byte(item.Body), nil
}

func (s *DynamoStore) Put(ctx context.Context, key string, doc []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return s.put(ctx, kindInvoice, key, doc)
}

func (s *DynamoStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.get(ctx, kindInvoice, key)
}

func (s *DynamoStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: partitionKey(kindInvoice, key)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *DynamoStore) List(ctx context.Context) ([][]byte, error) {
	var items []dynamoItem
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(s.table),
			FilterExpression: aws.String("#kind = :kind"),
			ExpressionAttributeNames: map[string]string{
				"#kind": "kind",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":kind": &types.AttributeValueMemberS{Value: kindInvoice},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoices: %w", err)
		}

		var page []dynamoItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal invoices: %w", err)
		}
		items = append(items, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	docs := make([][]byte, 0, len(items))
	for _, it := range items {
		docs = append(docs, []byte(it.Body))
	}
	return docs, nil
}

func (s *DynamoStore) GetGlobal(ctx context.Context) ([]byte, error) {
	return s.get(ctx, kindGlobal, globalKey)
}

func (s *DynamoStore) PutGlobal(ctx context.Context, doc []byte) error {
	return s.put(ctx, kindGlobal, globalKey, doc)
}
