package dynamo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/by22shh/buh-ai-assistant/internal/config"
)

// Bootstrap creates all DynamoDB tables and GSIs if they don't already exist.
// Safe to call on every startup; existing tables are skipped.
func Bootstrap(ctx context.Context, client *dynamodb.Client, tables config.DynamoTables) {
	createTable(ctx, client, hashTable(tables.Users, fieldUserID))

	sessions := hashTable(tables.Sessions, fieldSessionID, fieldUserID)
	sessions.GlobalSecondaryIndexes = []types.GlobalSecondaryIndex{gsi(indexUserID, fieldUserID, "")}
	createTable(ctx, client, sessions)
	enableTTL(ctx, client, tables.Sessions, "ttl")

	createTable(ctx, client, hashTable(tables.Verifications, fieldEmail))
	enableTTL(ctx, client, tables.Verifications, "ttl")

	orgs := hashTable(tables.Organizations, fieldOrganizationID, fieldOwnerID)
	orgs.GlobalSecondaryIndexes = []types.GlobalSecondaryIndex{gsi(indexOwnerID, fieldOwnerID, "")}
	createTable(ctx, client, orgs)

	docs := hashTable(tables.Documents, fieldDocumentID, fieldOwnerID)
	docs.GlobalSecondaryIndexes = []types.GlobalSecondaryIndex{gsi(indexOwnerID, fieldOwnerID, "")}
	createTable(ctx, client, docs)

	createTable(ctx, client, hashTable(tables.Templates, fieldCode))
}

// hashTable describes an on-demand table keyed by its first attribute. The
// remaining attributes are declared for use as index keys.
func hashTable(name string, attrs ...string) *dynamodb.CreateTableInput {
	defs := make([]types.AttributeDefinition, 0, len(attrs))
	for _, a := range attrs {
		defs = append(defs, types.AttributeDefinition{AttributeName: aws.String(a), AttributeType: types.ScalarAttributeTypeS})
	}
	return &dynamodb.CreateTableInput{
		TableName:            aws.String(name),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: defs,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrs[0]), KeyType: types.KeyTypeHash},
		},
	}
}

// gsi builds a GSI descriptor. If sortKey is empty, only a hash key is added.
func gsi(indexName, hashKey, sortKey string) types.GlobalSecondaryIndex {
	ks := []types.KeySchemaElement{
		{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
	}
	if sortKey != "" {
		ks = append(ks, types.KeySchemaElement{
			AttributeName: aws.String(sortKey), KeyType: types.KeyTypeRange,
		})
	}
	return types.GlobalSecondaryIndex{
		IndexName:  aws.String(indexName),
		KeySchema:  ks,
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}

func createTable(ctx context.Context, client *dynamodb.Client, input *dynamodb.CreateTableInput) {
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		var riue *types.ResourceInUseException
		if !errors.As(err, &riue) {
			slog.Warn("could not create table", "table", *input.TableName, "err", err)
		}
		return
	}
	slog.Info("created table", "table", *input.TableName)
}

func enableTTL(ctx context.Context, client *dynamodb.Client, tableName, ttlAttr string) {
	_, err := client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			Enabled:       aws.Bool(true),
			AttributeName: aws.String(ttlAttr),
		},
	})
	if err != nil {
		slog.Warn("could not enable TTL", "table", tableName, "err", err)
	}
}
