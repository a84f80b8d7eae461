package paketpilot

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/vvatanabe/paketpilot/internal/clock"
	"github.com/vvatanabe/paketpilot/internal/constant"
)

const (
	DefaultTableName        = constant.DefaultTableName
	DefaultRetryMaxAttempts = constant.DefaultRetryMaxAttempts
)

// Client is an interface for storing shipment records in a DynamoDB table.
// Errors returned by DynamoDB are passed through to the caller; the client never retries on its own.
type Client interface {
	// CreateShipment stores a new shipment record and returns it with its ID.
	CreateShipment(ctx context.Context, params *CreateShipmentInput) (*CreateShipmentOutput, error)
	// GetShipment retrieves a single shipment record by ID.
	GetShipment(ctx context.Context, params *GetShipmentInput) (*GetShipmentOutput, error)
	// ListShipments retrieves every shipment record, newest first.
	ListShipments(ctx context.Context, params *ListShipmentsInput) (*ListShipmentsOutput, error)
	// DeleteShipment deletes a single shipment record by ID.
	DeleteShipment(ctx context.Context, params *DeleteShipmentInput) (*DeleteShipmentOutput, error)
	// DeleteAllShipments deletes every shipment record in the table.
	DeleteAllShipments(ctx context.Context, params *DeleteAllShipmentsInput) (*DeleteAllShipmentsOutput, error)
}

// ClientOptions defines configuration options for the PaketPilot client.
//
// Note: The following fields are primarily used for testing purposes.
// They allow for stubbing of operations during tests without relying on a real DynamoDB instance:
//
//   - Clock
//   - IDGenerator
//   - MarshalMap
//   - UnmarshalMap
//   - UnmarshalListOfMaps
//   - BuildExpression
//   - BatchWriteBackOff
type ClientOptions struct {
	// DynamoDB is a pointer to the DynamoDB client used for database operations.
	DynamoDB *dynamodb.Client
	// TableName is the name of the DynamoDB table holding shipment records.
	TableName string
	// BaseEndpoint is the base endpoint URL for DynamoDB requests.
	BaseEndpoint string
	// RetryMaxAttempts is the maximum number of attempts the AWS SDK makes for a failed request.
	RetryMaxAttempts int

	// Clock is an abstraction of time operations, allowing control over time during tests.
	Clock clock.Clock
	// IDGenerator generates the ID of a shipment created without one. The default is uuid.NewString.
	IDGenerator func() string
	// MarshalMap is a function to marshal objects into a map of DynamoDB attribute values.
	MarshalMap func(in interface{}) (map[string]types.AttributeValue, error)
	// UnmarshalMap is a function to unmarshal a map of DynamoDB attribute values into objects.
	UnmarshalMap func(m map[string]types.AttributeValue, out interface{}) error
	// UnmarshalListOfMaps is a function to unmarshal a list of maps of DynamoDB attribute values into objects.
	UnmarshalListOfMaps func(l []map[string]types.AttributeValue, out interface{}) error
	// BuildExpression is a function to build DynamoDB expressions from a builder.
	BuildExpression func(b expression.Builder) (expression.Expression, error)
	// BatchWriteBackOff returns the wait schedule used before resubmitting unprocessed batch items.
	// A new schedule is created for every batch.
	BatchWriteBackOff func() backoff.BackOff
}

// WithTableName is an option function to set the table name for the PaketPilot client.
// By default, the table name is set to "paketpilot-shipments".
func WithTableName(tableName string) func(*ClientOptions) {
	return func(s *ClientOptions) {
		s.TableName = tableName
	}
}

// WithAWSDynamoDBClient is an option function to set a pre-configured DynamoDB client.
func WithAWSDynamoDBClient(client *dynamodb.Client) func(*ClientOptions) {
	return func(s *ClientOptions) {
		s.DynamoDB = client
	}
}

// WithAWSBaseEndpoint is an option function to set a custom base endpoint, such as DynamoDB Local.
// If the DynamoDB client is set using the WithAWSDynamoDBClient function, this option function is ignored.
func WithAWSBaseEndpoint(baseEndpoint string) func(*ClientOptions) {
	return func(s *ClientOptions) {
		s.BaseEndpoint = baseEndpoint
	}
}

// WithAWSRetryMaxAttempts is an option function to set the maximum number of attempts for AWS service calls.
// If the DynamoDB client is set using the WithAWSDynamoDBClient function, this option function is ignored.
func WithAWSRetryMaxAttempts(retryMaxAttempts int) func(*ClientOptions) {
	return func(s *ClientOptions) {
		s.RetryMaxAttempts = retryMaxAttempts
	}
}

// WithIDGenerator is an option function to set the generator of shipment IDs.
func WithIDGenerator(idGenerator func() string) func(*ClientOptions) {
	return func(s *ClientOptions) {
		if idGenerator != nil {
			s.IDGenerator = idGenerator
		}
	}
}

// NewFromConfig creates a new PaketPilot client using the provided AWS configuration and any additional client options.
func NewFromConfig(cfg aws.Config, optFns ...func(*ClientOptions)) (Client, error) {
	o := &ClientOptions{
		TableName:           constant.DefaultTableName,
		RetryMaxAttempts:    constant.DefaultRetryMaxAttempts,
		Clock:               &clock.RealClock{},
		IDGenerator:         uuid.NewString,
		MarshalMap:          attributevalue.MarshalMap,
		UnmarshalMap:        attributevalue.UnmarshalMap,
		UnmarshalListOfMaps: attributevalue.UnmarshalListOfMaps,
		BuildExpression: func(b expression.Builder) (expression.Expression, error) {
			return b.Build()
		},
		BatchWriteBackOff: newBatchWriteBackOff,
	}
	for _, opt := range optFns {
		opt(o)
	}
	c := &ClientImpl{
		tableName:           o.TableName,
		dynamoDB:            o.DynamoDB,
		clock:               o.Clock,
		idGenerator:         o.IDGenerator,
		marshalMap:          o.MarshalMap,
		unmarshalMap:        o.UnmarshalMap,
		unmarshalListOfMaps: o.UnmarshalListOfMaps,
		buildExpression:     o.BuildExpression,
		batchWriteBackOff:   o.BatchWriteBackOff,
	}
	if c.dynamoDB != nil {
		return c, nil
	}
	c.dynamoDB = dynamodb.NewFromConfig(cfg, func(options *dynamodb.Options) {
		options.RetryMaxAttempts = o.RetryMaxAttempts
		if o.BaseEndpoint != "" {
			options.BaseEndpoint = aws.String(o.BaseEndpoint)
		}
	})
	return c, nil
}

// ClientImpl is a concrete implementation of the paketpilot.Client interface.
// Note: ClientImpl cannot be used directly. Always use the paketpilot.NewFromConfig function to create an instance.
type ClientImpl struct {
	dynamoDB            *dynamodb.Client
	tableName           string
	clock               clock.Clock
	idGenerator         func() string
	marshalMap          func(in interface{}) (map[string]types.AttributeValue, error)
	unmarshalMap        func(m map[string]types.AttributeValue, out interface{}) error
	unmarshalListOfMaps func(l []map[string]types.AttributeValue, out interface{}) error
	buildExpression     func(b expression.Builder) (expression.Expression, error)
	batchWriteBackOff   func() backoff.BackOff
}

// CreateShipmentInput represents the input parameters for creating a shipment record.
type CreateShipmentInput struct {
	// ID is the identifier of the record. A new ID is generated when it is empty.
	ID          string
	Origin      string
	Destination string
	ItemType    string
	Quantity    string
}

// CreateShipmentOutput represents the result of a create operation.
type CreateShipmentOutput struct {
	// Shipment is the record as it was written to the table.
	Shipment *Shipment
}

// CreateShipment stores a new shipment record.
// The write is conditional on the ID not existing yet; a duplicated ID results in an IDDuplicatedError.
func (c *ClientImpl) CreateShipment(ctx context.Context, params *CreateShipmentInput) (*CreateShipmentOutput, error) {
	if params == nil {
		params = &CreateShipmentInput{}
	}
	id := params.ID
	if id == "" {
		id = c.idGenerator()
	}
	shipment := NewShipment(id, params.Origin, params.Destination, params.ItemType, params.Quantity, c.clock.Now())
	builder := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("id")))
	expr, err := c.buildExpression(builder)
	if err != nil {
		return &CreateShipmentOutput{}, BuildingExpressionError{Cause: err}
	}
	item, err := c.marshalMap(shipment)
	if err != nil {
		return &CreateShipmentOutput{}, MarshalingAttributeError{Cause: err}
	}
	_, err = c.dynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(c.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var cause *types.ConditionalCheckFailedException
		if errors.As(err, &cause) {
			return &CreateShipmentOutput{}, IDDuplicatedError{}
		}
		return &CreateShipmentOutput{}, handleDynamoDBError(err)
	}
	return &CreateShipmentOutput{
		Shipment: shipment,
	}, nil
}

// GetShipmentInput represents the input parameters for retrieving a shipment record.
type GetShipmentInput struct {
	ID string
}

// GetShipmentOutput represents the result of a get operation.
type GetShipmentOutput struct {
	// Shipment is nil when no record has the requested ID.
	Shipment *Shipment
}

// GetShipment retrieves a shipment record by ID with a consistent read.
func (c *ClientImpl) GetShipment(ctx context.Context, params *GetShipmentInput) (*GetShipmentOutput, error) {
	if params == nil {
		params = &GetShipmentInput{}
	}
	if params.ID == "" {
		return &GetShipmentOutput{}, IDNotProvidedError{}
	}
	resp, err := c.dynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		Key:            idKey(params.ID),
		TableName:      aws.String(c.tableName),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return &GetShipmentOutput{}, handleDynamoDBError(err)
	}
	if resp.Item == nil {
		return &GetShipmentOutput{}, nil
	}
	shipment := Shipment{}
	err = c.unmarshalMap(resp.Item, &shipment)
	if err != nil {
		return &GetShipmentOutput{}, UnmarshalingAttributeError{Cause: err}
	}
	return &GetShipmentOutput{
		Shipment: &shipment,
	}, nil
}

// ListShipmentsInput represents the input parameters for listing shipment records.
// Every non-empty filter field must match exactly.
type ListShipmentsInput struct {
	Origin      string
	Destination string
	ItemType    string
	// Size limits the number of returned records. Zero or less returns all of them.
	Size int
}

// ListShipmentsOutput represents the result of a list operation.
type ListShipmentsOutput struct {
	// Shipments are ordered newest first.
	Shipments []*Shipment
}

// ListShipments scans the whole table and returns the shipment records ordered by creation time, newest first.
// Records created at the same instant are ordered by ID in descending order.
func (c *ClientImpl) ListShipments(ctx context.Context, params *ListShipmentsInput) (*ListShipmentsOutput, error) {
	if params == nil {
		params = &ListShipmentsInput{}
	}
	input := &dynamodb.ScanInput{
		TableName:      aws.String(c.tableName),
		ConsistentRead: aws.Bool(true),
	}
	if filter, ok := listFilter(params); ok {
		expr, err := c.buildExpression(expression.NewBuilder().WithFilter(filter))
		if err != nil {
			return &ListShipmentsOutput{}, BuildingExpressionError{Cause: err}
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}
	shipments := make([]*Shipment, 0)
	for {
		output, err := c.dynamoDB.Scan(ctx, input)
		if err != nil {
			return &ListShipmentsOutput{}, handleDynamoDBError(err)
		}
		var page []*Shipment
		err = c.unmarshalListOfMaps(output.Items, &page)
		if err != nil {
			return &ListShipmentsOutput{}, UnmarshalingAttributeError{Cause: err}
		}
		shipments = append(shipments, page...)
		if len(output.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
	sort.SliceStable(shipments, func(i, j int) bool {
		return newerFirst(shipments[i], shipments[j])
	})
	if params.Size > 0 && len(shipments) > params.Size {
		shipments = shipments[:params.Size]
	}
	return &ListShipmentsOutput{Shipments: shipments}, nil
}

func listFilter(params *ListShipmentsInput) (expression.ConditionBuilder, bool) {
	var conditions []expression.ConditionBuilder
	for _, f := range []struct {
		name  string
		value string
	}{
		{"origin", params.Origin},
		{"destination", params.Destination},
		{"item_type", params.ItemType},
	} {
		if f.value == "" {
			continue
		}
		conditions = append(conditions, expression.Name(f.name).Equal(expression.Value(f.value)))
	}
	switch len(conditions) {
	case 0:
		return expression.ConditionBuilder{}, false
	case 1:
		return conditions[0], true
	default:
		return expression.And(conditions[0], conditions[1], conditions[2:]...), true
	}
}

// DeleteShipmentInput represents the input parameters for deleting a shipment record.
type DeleteShipmentInput struct {
	ID string
}

// DeleteShipmentOutput represents the result of the delete operation.
// This struct is empty as the delete operation does not return any specific information.
type DeleteShipmentOutput struct{}

// DeleteShipment deletes the shipment record with the given ID.
// Deleting an ID that does not exist is not an error.
func (c *ClientImpl) DeleteShipment(ctx context.Context, params *DeleteShipmentInput) (*DeleteShipmentOutput, error) {
	if params == nil {
		params = &DeleteShipmentInput{}
	}
	out := &DeleteShipmentOutput{}
	if params.ID == "" {
		return out, IDNotProvidedError{}
	}
	_, err := c.dynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.tableName),
		Key:       idKey(params.ID),
	})
	if err != nil {
		return out, handleDynamoDBError(err)
	}
	return out, nil
}

// DeleteAllShipmentsInput represents the input parameters for deleting every shipment record.
type DeleteAllShipmentsInput struct{}

// DeleteAllShipmentsOutput represents the result of the delete all operation.
type DeleteAllShipmentsOutput struct {
	// Deleted is the number of records that were deleted.
	Deleted int `json:"deleted"`
}

// DeleteAllShipments collects the IDs of every record and deletes them with BatchWriteItem,
// 25 requests at a time. Items reported back as unprocessed are submitted again after an
// exponentially growing wait; an UnprocessedItemsError is returned when the wait schedule runs out.
func (c *ClientImpl) DeleteAllShipments(ctx context.Context, _ *DeleteAllShipmentsInput) (*DeleteAllShipmentsOutput, error) {
	ids, err := c.scanIDs(ctx)
	if err != nil {
		return &DeleteAllShipmentsOutput{}, err
	}
	deleted := 0
	for start := 0; start < len(ids); start += constant.MaxBatchWriteItems {
		end := start + constant.MaxBatchWriteItems
		if end > len(ids) {
			end = len(ids)
		}
		if err := c.batchDelete(ctx, ids[start:end]); err != nil {
			return &DeleteAllShipmentsOutput{Deleted: deleted}, err
		}
		deleted += end - start
	}
	return &DeleteAllShipmentsOutput{Deleted: deleted}, nil
}

func (c *ClientImpl) scanIDs(ctx context.Context) ([]string, error) {
	builder := expression.NewBuilder().
		WithProjection(expression.NamesList(expression.Name("id")))
	expr, err := c.buildExpression(builder)
	if err != nil {
		return nil, BuildingExpressionError{Cause: err}
	}
	var (
		ids              []string
		lastEvaluatedKey map[string]types.AttributeValue
	)
	for {
		output, err := c.dynamoDB.Scan(ctx, &dynamodb.ScanInput{
			TableName:                aws.String(c.tableName),
			ProjectionExpression:     expr.Projection(),
			ExpressionAttributeNames: expr.Names(),
			ConsistentRead:           aws.Bool(true),
			ExclusiveStartKey:        lastEvaluatedKey,
		})
		if err != nil {
			return nil, handleDynamoDBError(err)
		}
		for _, itemMap := range output.Items {
			item := Shipment{}
			if err := c.unmarshalMap(itemMap, &item); err != nil {
				return nil, UnmarshalingAttributeError{Cause: err}
			}
			ids = append(ids, item.ID)
		}
		lastEvaluatedKey = output.LastEvaluatedKey
		if len(lastEvaluatedKey) == 0 {
			break
		}
	}
	return ids, nil
}

func (c *ClientImpl) batchDelete(ctx context.Context, ids []string) error {
	requests := make([]types.WriteRequest, 0, len(ids))
	for _, id := range ids {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: idKey(id)},
		})
	}
	b := backoff.WithContext(c.batchWriteBackOff(), ctx)
	pending := map[string][]types.WriteRequest{c.tableName: requests}
	for {
		out, err := c.dynamoDB.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return handleDynamoDBError(err)
		}
		pending = out.UnprocessedItems
		if len(pending[c.tableName]) == 0 {
			return nil
		}
		if err := waitBackOff(ctx, b); err != nil {
			return UnprocessedItemsError{Remaining: len(pending[c.tableName]), Cause: err}
		}
	}
}

var errBackOffExhausted = errors.New("back-off schedule exhausted")

// waitBackOff sleeps for the next interval of b. It returns early with the context error when ctx is done.
func waitBackOff(ctx context.Context, b backoff.BackOff) error {
	next := b.NextBackOff()
	if next == backoff.Stop {
		if err := ctx.Err(); err != nil {
			return err
		}
		return errBackOffExhausted
	}
	timer := time.NewTimer(next)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func newBatchWriteBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = time.Minute
	b.Reset()
	return b
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func handleDynamoDBError(err error) error {
	return DynamoDBAPIError{Cause: err}
}
