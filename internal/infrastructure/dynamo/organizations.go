package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

// innClaim reserves an INN within one owner's organizations. It lives in the
// organizations table without an owner_id so the owner index skips it.
type innClaim struct {
	Key   string `dynamodbav:"organization_id"`
	OrgID string `dynamodbav:"claimed_by"`
}

func innClaimKey(ownerID, inn string) string {
	return "inn#" + ownerID + "#" + inn
}

// OrganizationRepo provides typed DynamoDB operations for the organizations table.
type OrganizationRepo struct {
	client    api
	tableName string
}

func NewOrganizationRepo(client api, tableName string) *OrganizationRepo {
	return &OrganizationRepo{client: client, tableName: tableName}
}

// Put creates or replaces an organization. When the INN is new for the
// owner its claim is written in the same transaction; a taken INN fails
// with ErrConflict.
func (r *OrganizationRepo) Put(ctx context.Context, o *domain.Organization) error {
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal organization: %w", err)
	}
	old, err := r.Get(ctx, o.OrganizationID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if old != nil && old.INN == o.INN && old.OwnerID == o.OwnerID {
		_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      item,
		})
		return err
	}

	claim, err := attributevalue.MarshalMap(innClaim{Key: innClaimKey(o.OwnerID, o.INN), OrgID: o.OrganizationID})
	if err != nil {
		return fmt.Errorf("marshal inn claim: %w", err)
	}
	items := []types.TransactWriteItem{
		{Put: &types.Put{TableName: aws.String(r.tableName), Item: item}},
		{Put: &types.Put{
			TableName:           aws.String(r.tableName),
			Item:                claim,
			ConditionExpression: aws.String("attribute_not_exists(organization_id)"),
		}},
	}
	if old != nil {
		items = append(items, types.TransactWriteItem{Delete: &types.Delete{
			TableName: aws.String(r.tableName),
			Key:       strKey(fieldOrganizationID, innClaimKey(old.OwnerID, old.INN)),
		}})
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if isTxConditionFailed(err) {
		return fmt.Errorf("organization with this INN already exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *OrganizationRepo) Get(ctx context.Context, orgID string) (*domain.Organization, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldOrganizationID, orgID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("organization not found: %w", domain.ErrNotFound)
	}
	if _, claim := out.Item["claimed_by"]; claim {
		return nil, fmt.Errorf("organization not found: %w", domain.ErrNotFound)
	}
	var o domain.Organization
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrganizationRepo) GetByINN(ctx context.Context, ownerID, inn string) (*domain.Organization, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldOrganizationID, innClaimKey(ownerID, inn)),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("organization not found: %w", domain.ErrNotFound)
	}
	var c innClaim
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return r.Get(ctx, c.OrgID)
}

// ListByOwner returns the owner's organizations, newest first.
func (r *OrganizationRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Organization, error) {
	items, err := queryOwner(ctx, r.client, r.tableName, ownerID)
	if err != nil {
		return nil, err
	}
	orgs := []domain.Organization{}
	if err := attributevalue.UnmarshalListOfMaps(items, &orgs); err != nil {
		return nil, err
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].CreatedAt.After(orgs[j].CreatedAt) })
	return orgs, nil
}

// Delete removes the organization and releases its INN claim.
func (r *OrganizationRepo) Delete(ctx context.Context, orgID string) error {
	o, err := r.Get(ctx, orgID)
	if err != nil {
		return err
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName:           aws.String(r.tableName),
				Key:                 strKey(fieldOrganizationID, orgID),
				ConditionExpression: aws.String("attribute_exists(organization_id)"),
			}},
			{Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key:       strKey(fieldOrganizationID, innClaimKey(o.OwnerID, o.INN)),
			}},
		},
	})
	if isTxConditionFailed(err) {
		return fmt.Errorf("organization not found: %w", domain.ErrNotFound)
	}
	return err
}

// queryOwner collects every item of ownerID from the owner index.
func queryOwner(ctx context.Context, client api, table, ownerID string) ([]map[string]types.AttributeValue, error) {
	p := dynamodb.NewQueryPaginator(client, &dynamodb.QueryInput{
		TableName:              aws.String(table),
		IndexName:              aws.String(indexOwnerID),
		KeyConditionExpression: aws.String("owner_id = :o"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":o": &types.AttributeValueMemberS{Value: ownerID},
		},
	})
	var items []map[string]types.AttributeValue
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}
