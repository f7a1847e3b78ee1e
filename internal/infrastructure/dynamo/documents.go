package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

// DocumentRepo provides typed DynamoDB operations for the documents table.
type DocumentRepo struct {
	client    api
	tableName string
}

func NewDocumentRepo(client api, tableName string) *DocumentRepo {
	return &DocumentRepo{client: client, tableName: tableName}
}

func (r *DocumentRepo) Put(ctx context.Context, d *domain.Document) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *DocumentRepo) Get(ctx context.Context, docID string) (*domain.Document, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldDocumentID, docID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("document not found: %w", domain.ErrNotFound)
	}
	var d domain.Document
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByOwner returns the owner's documents, newest first.
func (r *DocumentRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error) {
	items, err := queryOwner(ctx, r.client, r.tableName, ownerID)
	if err != nil {
		return nil, err
	}
	docs := []domain.Document{}
	if err := attributevalue.UnmarshalListOfMaps(items, &docs); err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	return docs, nil
}

func (r *DocumentRepo) Delete(ctx context.Context, docID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldDocumentID, docID),
		ConditionExpression: aws.String("attribute_exists(document_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("document not found: %w", domain.ErrNotFound)
	}
	return err
}
