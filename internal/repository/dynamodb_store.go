package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/smart-bharat/backend/internal/model/alert"
)

const skMeta = "META#"

// dynamodbAPI is the minimal DynamoDB interface required by DynamoDBStore.
// Defined here for testability.
type dynamodbAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoDBStore persists alerts to a single DynamoDB table, one item per
// alert keyed by the alert id.
type DynamoDBStore struct {
	api       dynamodbAPI
	tableName string
}

// NewDynamoDBStore creates a DynamoDB-backed AlertStore.
func NewDynamoDBStore(api dynamodbAPI, tableName string) (*DynamoDBStore, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &DynamoDBStore{api: api, tableName: tableName}, nil
}

func alertPK(id string) string {
	return "ALERT#" + id
}

// SaveAlert writes the alert item. The condition expression enforces the
// write-once contract.
func (s *DynamoDBStore) SaveAlert(ctx context.Context, a alert.EmergencyAlert) error {
	if a.ID == "" {
		return errors.New("repository: SaveAlert: alert id is required")
	}

	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                alertItem(a),
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return fmt.Errorf("repository: SaveAlert: %w", err)
	}
	return nil
}

func alertItem(a alert.EmergencyAlert) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: alertPK(a.ID)},
		"SK":           &types.AttributeValueMemberS{Value: skMeta},
		"alertId":      &types.AttributeValueMemberS{Value: a.ID},
		"type":         &types.AttributeValueMemberS{Value: string(a.Type)},
		"latitude":     &types.AttributeValueMemberN{Value: strconv.FormatFloat(a.Location.Latitude, 'f', -1, 64)},
		"longitude":    &types.AttributeValueMemberN{Value: strconv.FormatFloat(a.Location.Longitude, 'f', -1, 64)},
		"address":      &types.AttributeValueMemberS{Value: a.Location.Address},
		"message":      &types.AttributeValueMemberS{Value: a.Message},
		"contactName":  &types.AttributeValueMemberS{Value: a.Contact.Name},
		"contactPhone": &types.AttributeValueMemberS{Value: a.Contact.Phone},
		"timestamp":    &types.AttributeValueMemberS{Value: a.Timestamp.UTC().Format(time.RFC3339)},
	}
}
