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

// TemplateRepo provides typed DynamoDB operations for the template catalog.
type TemplateRepo struct {
	client    api
	tableName string
}

func NewTemplateRepo(client api, tableName string) *TemplateRepo {
	return &TemplateRepo{client: client, tableName: tableName}
}

func (r *TemplateRepo) Put(ctx context.Context, t *domain.Template) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *TemplateRepo) Get(ctx context.Context, code string) (*domain.Template, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldCode, code),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("template not found: %w", domain.ErrNotFound)
	}
	var t domain.Template
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List scans the whole catalog. The catalog is small and admin-curated.
func (r *TemplateRepo) List(ctx context.Context) ([]domain.Template, error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	out := []domain.Template{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.Template
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
