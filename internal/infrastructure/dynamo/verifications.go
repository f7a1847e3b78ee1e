package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

// VerificationRepo manages pending login codes.
// PK: email. Items expire through the ttl attribute.
type VerificationRepo struct {
	client    api
	tableName string
}

func NewVerificationRepo(client api, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

// Put replaces any pending code for the same email.
func (r *VerificationRepo) Put(ctx context.Context, v *domain.PendingVerification) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *VerificationRepo) Get(ctx context.Context, email string) (*domain.PendingVerification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	var v domain.PendingVerification
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Take deletes the record only if it still carries deliveryToken and has
// fewer than maxAttempts recorded attempts, and returns what was deleted.
// Concurrent callers race on the condition; one wins. A record that exists
// with the token but is over the cap yields ErrRateLimited.
func (r *VerificationRepo) Take(ctx context.Context, email, deliveryToken string, maxAttempts int) (*domain.PendingVerification, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldEmail, email),
		ConditionExpression: aws.String("#t = :t AND (attribute_not_exists(#a) OR #a < :max)"),
		ExpressionAttributeNames: map[string]string{
			"#t": fieldDeliveryToken,
			"#a": fieldAttemptCount,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":   &types.AttributeValueMemberS{Value: deliveryToken},
			":max": &types.AttributeValueMemberN{Value: strconv.Itoa(maxAttempts)},
		},
		ReturnValues:                        types.ReturnValueAllOld,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		if exhaustedWithToken(ccf.Item, deliveryToken, maxAttempts) {
			return nil, fmt.Errorf("attempt cap reached: %w", domain.ErrRateLimited)
		}
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var v domain.PendingVerification
	if err := attributevalue.UnmarshalMap(out.Attributes, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// exhaustedWithToken reports whether item is the record issued under
// deliveryToken and already at the attempt cap.
func exhaustedWithToken(item map[string]types.AttributeValue, deliveryToken string, maxAttempts int) bool {
	if item == nil {
		return false
	}
	var v domain.PendingVerification
	if err := attributevalue.UnmarshalMap(item, &v); err != nil {
		return false
	}
	return v.DeliveryToken == deliveryToken && v.Exhausted(maxAttempts)
}

// IncrementAttempts atomically adds one to the attempt counter of the record
// carrying deliveryToken and returns the new count.
func (r *VerificationRepo) IncrementAttempts(ctx context.Context, email, deliveryToken string) (int, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldEmail, email),
		UpdateExpression:    aws.String("ADD #a :one"),
		ConditionExpression: aws.String("#t = :t"),
		ExpressionAttributeNames: map[string]string{
			"#a": fieldAttemptCount,
			"#t": fieldDeliveryToken,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":t":   &types.AttributeValueMemberS{Value: deliveryToken},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if isConditionFailed(err) {
		return 0, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	n, ok := out.Attributes[fieldAttemptCount].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("attempt count missing from update result")
	}
	return strconv.Atoi(n.Value)
}

func (r *VerificationRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldEmail, email),
	})
	return err
}
