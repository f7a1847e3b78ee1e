package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

// emailClaimPrefix marks items that reserve an email for one user. Claims
// share the users table so a user and its claim can be written in one
// transaction.
const emailClaimPrefix = "email#"

type emailClaim struct {
	Key     string `dynamodbav:"user_id"`
	OwnerID string `dynamodbav:"owner_id"`
}

// UserRepo provides typed DynamoDB operations for the users table.
type UserRepo struct {
	client    api
	tableName string
}

func NewUserRepo(client api, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

// Create stores a new user together with its email claim. A taken email
// fails with ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	claim, err := r.claimPut(u.Email, u.UserID)
	if err != nil {
		return err
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(user_id)"),
			}},
			{Put: claim},
		},
	})
	if isTxConditionFailed(err) {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	return err
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldUserID, userID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail resolves the email claim and loads its owner.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldUserID, emailClaimPrefix+email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var c emailClaim
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return r.Get(ctx, c.OwnerID)
}

// Update writes the profile fields of u. When the email changes the claim
// moves in the same transaction, so a taken email leaves both users intact.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	old, err := r.Get(ctx, u.UserID)
	if err != nil {
		return err
	}
	u.UpdatedAt = time.Now().UTC()
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldEmail:         u.Email,
		fieldFirstName:     u.FirstName,
		fieldLastName:      u.LastName,
		fieldPosition:      u.Position,
		fieldCompany:       u.Company,
		fieldEmailVerified: u.EmailVerified,
		fieldUpdatedAt:     u.UpdatedAt,
	})
	if err != nil {
		return err
	}
	update := &types.Update{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldUserID, u.UserID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(user_id)"),
	}
	if old.Email == u.Email {
		_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 update.TableName,
			Key:                       update.Key,
			UpdateExpression:          update.UpdateExpression,
			ExpressionAttributeNames:  update.ExpressionAttributeNames,
			ExpressionAttributeValues: update.ExpressionAttributeValues,
			ConditionExpression:       update.ConditionExpression,
		})
		if isConditionFailed(err) {
			return fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return err
	}

	claim, err := r.claimPut(u.Email, u.UserID)
	if err != nil {
		return err
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: update},
			{Put: claim},
			{Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key:       strKey(fieldUserID, emailClaimPrefix+old.Email),
			}},
		},
	})
	if isTxConditionFailed(err) {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	return err
}

// List scans the users table, skipping email claim items.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		FilterExpression:         aws.String("NOT begins_with(#id, :claim)"),
		ExpressionAttributeNames: map[string]string{"#id": fieldUserID},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":claim": &types.AttributeValueMemberS{Value: emailClaimPrefix},
		},
	})
	out := []domain.User{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.User
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// SetAccess writes the access period fields. Nil bounds are removed.
func (r *UserRepo) SetAccess(ctx context.Context, userID string, g domain.AccessGrant) (*domain.User, error) {
	set := map[string]interface{}{
		fieldAccessBy:      g.UpdatedBy,
		fieldAccessComment: g.Comment,
		fieldUpdatedAt:     time.Now().UTC(),
	}
	var remove []string
	for field, ts := range map[string]*time.Time{fieldAccessFrom: g.From, fieldAccessUntil: g.Until} {
		if ts == nil {
			remove = append(remove, field)
			continue
		}
		set[field] = ts.UTC()
	}
	ue, err := buildUpdateExpr(set)
	if err != nil {
		return nil, err
	}
	sort.Strings(remove)
	for i, field := range remove {
		name := fmt.Sprintf("#r%d", i)
		ue.Names[name] = field
		if i == 0 {
			ue.Expr += " REMOVE "
		} else {
			ue.Expr += ", "
		}
		ue.Expr += name
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldUserID, userID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(user_id)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if isConditionFailed(err) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Attributes, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// IncrementDocumentUsage takes one demo slot with a conditional ADD, so
// concurrent creates on any instance cannot push the counter past limit.
func (r *UserRepo) IncrementDocumentUsage(ctx context.Context, userID string, limit int) (int, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldUserID, userID),
		UpdateExpression:    aws.String("ADD #n :one"),
		ConditionExpression: aws.String("attribute_exists(#id) AND (attribute_not_exists(#n) OR #n < :limit)"),
		ExpressionAttributeNames: map[string]string{
			"#id": fieldUserID,
			"#n":  fieldDocumentsUsed,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":   &types.AttributeValueMemberN{Value: "1"},
			":limit": &types.AttributeValueMemberN{Value: strconv.Itoa(limit)},
		},
		ReturnValues:                        types.ReturnValueUpdatedNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		if ccf.Item == nil {
			return 0, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return limit, fmt.Errorf("%d documents: %w", limit, domain.ErrDemoLimit)
	}
	if err != nil {
		return 0, err
	}
	n, ok := out.Attributes[fieldDocumentsUsed].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("unexpected %s attribute", fieldDocumentsUsed)
	}
	return strconv.Atoi(n.Value)
}

// ReleaseDocumentUsage returns a slot taken for a document that was never stored.
func (r *UserRepo) ReleaseDocumentUsage(ctx context.Context, userID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldUserID, userID),
		UpdateExpression:    aws.String("ADD #n :minus"),
		ConditionExpression: aws.String("#n > :zero"),
		ExpressionAttributeNames: map[string]string{
			"#n": fieldDocumentsUsed,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":minus": &types.AttributeValueMemberN{Value: "-1"},
			":zero":  &types.AttributeValueMemberN{Value: "0"},
		},
	})
	if isConditionFailed(err) {
		return nil
	}
	return err
}

func (r *UserRepo) claimPut(email, ownerID string) (*types.Put, error) {
	item, err := attributevalue.MarshalMap(emailClaim{Key: emailClaimPrefix + email, OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("marshal email claim: %w", err)
	}
	return &types.Put{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	}, nil
}
