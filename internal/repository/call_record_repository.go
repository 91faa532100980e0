package repository

import (
	"context"
	"errors"
	"fmt"

	"call-directory/internal/domain/call"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Wire attribute names of the call record table. The group id is the
// partition key; the region attribute keys the secondary index.
const (
	groupIDAttr = "groupConferenceId"
	callIDAttr  = "jvbConferenceId"
	regionAttr  = "region"
)

type DynamoCallRecordRepository struct {
	client *dynamodb.Client
	table  string
	index  string
}

func NewCallRecordRepository(client *dynamodb.Client, table, index string) CallRecordRepository {
	return &DynamoCallRecordRepository{client: client, table: table, index: index}
}

func (r *DynamoCallRecordRepository) Get(ctx context.Context, groupID string) (*call.Record, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			groupIDAttr: &types.AttributeValueMemberS{Value: groupID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get call record: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var rec call.Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("decode call record: %w", err)
	}
	return &rec, nil
}

func (r *DynamoCallRecordRepository) GetOrAdd(ctx context.Context, rec call.Record) (*call.Record, error) {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("encode call record: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
		// Never overwrite an existing call for the group.
		ConditionExpression: aws.String("attribute_not_exists(" + groupIDAttr + ")"),
	})
	if err == nil {
		return &rec, nil
	}

	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		// A concurrent insert won; return whatever is stored now.
		existing, err := r.Get(ctx, rec.GroupID)
		if err != nil {
			return nil, fmt.Errorf("get call record after conditional check failed: %w", err)
		}
		return existing, nil
	}
	return nil, fmt.Errorf("put call record: %w", err)
}

func (r *DynamoCallRecordRepository) Remove(ctx context.Context, groupID, callID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			groupIDAttr: &types.AttributeValueMemberS{Value: groupID},
		},
		// Only delete the instance the caller last observed. If a newer
		// call replaced it, that call must survive.
		ConditionExpression: aws.String(callIDAttr + " = :value"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberS{Value: callID},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			// Already removed or replaced; the caller's instance is gone.
			return nil
		}
		return fmt.Errorf("delete call record: %w", err)
	}
	return nil
}

func (r *DynamoCallRecordRepository) ListByRegion(ctx context.Context, region string) ([]call.Record, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(r.index),
		KeyConditionExpression: aws.String("#region = :value"),
		ExpressionAttributeNames: map[string]string{
			"#region": regionAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberS{Value: region},
		},
		ConsistentRead: aws.Bool(false),
		Select:         types.SelectAllAttributes,
	})
	if err != nil {
		return nil, fmt.Errorf("query call records by region: %w", err)
	}

	records := make([]call.Record, 0, len(out.Items))
	for _, item := range out.Items {
		var rec call.Record
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("decode call record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
