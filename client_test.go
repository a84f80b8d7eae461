package paketpilot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/upsidr/dynamotest"
	"github.com/vvatanabe/paketpilot/internal/clock"
	"github.com/vvatanabe/paketpilot/internal/test"
)

var DefaultTestDate = Date(2023, 12, 1, 0, 0, 0)

func SetupDynamoDB(t *testing.T, initialData ...*types.PutRequest) (tableName string, client *dynamodb.Client, clean func()) {
	client, clean = dynamotest.NewDynamoDB(t)
	tableName = DefaultTableName + "-" + uuid.NewString()
	dynamotest.PrepTable(t, client, dynamotest.InitialTableSetup{
		Table:       NewCreateTableInput(tableName),
		InitialData: initialData,
	})
	return
}

func NewSetupFunc(initialData ...*types.PutRequest) func(t *testing.T) (string, *dynamodb.Client, func()) {
	return func(t *testing.T) (string, *dynamodb.Client, func()) {
		return SetupDynamoDB(t, initialData...)
	}
}

type ClientTestCase[Args any, Want any] struct {
	name     string
	setup    func(*testing.T) (string, *dynamodb.Client, func())
	sdkClock clock.Clock
	args     Args
	want     Want
	wantErr  error
}

func TestClientShouldReturnError(t *testing.T) {
	t.Parallel()
	client, clean := prepareTestClient(t, context.Background(),
		NewSetupFunc(NewPutRequestWithShipment("A-101", DefaultTestDate)), MockClock{t: DefaultTestDate})
	defer clean()
	type testCase struct {
		name      string
		operation func() error
		wantError error
	}
	tests := []testCase{
		{
			name: "CreateShipment should return IDDuplicatedError",
			operation: func() error {
				data := test.NewShipmentData("A-101")
				_, err := client.CreateShipment(context.Background(), &CreateShipmentInput{
					ID:          data.ID,
					Origin:      data.Origin,
					Destination: data.Destination,
					ItemType:    data.ItemType,
					Quantity:    data.Quantity,
				})
				return err
			},
			wantError: IDDuplicatedError{},
		},
		{
			name: "GetShipment should return IDNotProvidedError",
			operation: func() error {
				_, err := client.GetShipment(context.Background(), nil)
				return err
			},
			wantError: IDNotProvidedError{},
		},
		{
			name: "DeleteShipment should return IDNotProvidedError",
			operation: func() error {
				_, err := client.DeleteShipment(context.Background(), nil)
				return err
			},
			wantError: IDNotProvidedError{},
		},
	}
	for _, tt := range tests {
		_ = assertError(t, tt.operation(), tt.wantError, tt.name)
	}
}

func TestClientCreateShipment(t *testing.T) {
	t.Parallel()
	tests := []ClientTestCase[*CreateShipmentInput, *CreateShipmentOutput]{
		{
			name:     "should succeed when id is not duplicated",
			setup:    NewSetupFunc(),
			sdkClock: MockClock{t: DefaultTestDate},
			args:     NewCreateShipmentInput("A-101"),
			want: &CreateShipmentOutput{
				Shipment: NewTestShipment("A-101", DefaultTestDate),
			},
		},
		{
			name:     "should generate id when id is empty",
			setup:    NewSetupFunc(),
			sdkClock: MockClock{t: DefaultTestDate},
			args:     NewCreateShipmentInput(""),
			want: &CreateShipmentOutput{
				Shipment: func() *Shipment {
					s := NewTestShipment("", DefaultTestDate)
					s.ID = testGeneratedID
					return s
				}(),
			},
		},
		{
			name:     "should return IDDuplicatedError when id already exists",
			setup:    NewSetupFunc(NewPutRequestWithShipment("A-101", DefaultTestDate)),
			sdkClock: MockClock{t: DefaultTestDate},
			args:     NewCreateShipmentInput("A-101"),
			wantErr:  IDDuplicatedError{},
		},
	}
	runTestsParallel[*CreateShipmentInput, *CreateShipmentOutput](t, "CreateShipment()", tests,
		func(client Client, args *CreateShipmentInput) (*CreateShipmentOutput, error) {
			return client.CreateShipment(context.Background(), args)
		})
}

func TestClientGetShipment(t *testing.T) {
	t.Parallel()
	tests := []ClientTestCase[string, *GetShipmentOutput]{
		{
			name:  "should return shipment when id is found",
			setup: NewSetupFunc(NewPutRequestWithShipment("A-101", DefaultTestDate)),
			args:  "A-101",
			want: &GetShipmentOutput{
				Shipment: NewTestShipment("A-101", DefaultTestDate),
			},
		},
		{
			name:  "should return nil shipment when id is not found",
			setup: NewSetupFunc(NewPutRequestWithShipment("A-101", DefaultTestDate)),
			args:  "B-101",
			want:  &GetShipmentOutput{},
		},
	}
	runTestsParallel[string, *GetShipmentOutput](t, "GetShipment()", tests,
		func(client Client, id string) (*GetShipmentOutput, error) {
			return client.GetShipment(context.Background(), &GetShipmentInput{ID: id})
		})
}

func TestClientListShipments(t *testing.T) {
	t.Parallel()
	shipments := GenerateExpectedShipments("A", DefaultTestDate, 5)
	sameInstant := []*Shipment{
		NewTestShipment("B-1", DefaultTestDate),
		NewTestShipment("B-2", DefaultTestDate),
		NewTestShipment("B-3", DefaultTestDate),
	}
	izmir := NewTestShipment("C-1", DefaultTestDate.Add(time.Hour))
	izmir.Origin = "Izmir"
	subSecond := []*Shipment{
		NewTestShipment("D-1", DefaultTestDate),
		NewTestShipment("D-2", DefaultTestDate.Add(120*time.Millisecond)),
		NewTestShipment("D-3", DefaultTestDate.Add(123*time.Millisecond)),
	}
	tests := []ClientTestCase[*ListShipmentsInput, *ListShipmentsOutput]{
		{
			name:  "should return empty list when table is empty",
			setup: NewSetupFunc(),
			args:  nil,
			want: &ListShipmentsOutput{
				Shipments: []*Shipment{},
			},
		},
		{
			name:  "should return shipments newest first",
			setup: NewSetupFunc(GeneratePutRequests(shipments)...),
			args:  &ListShipmentsInput{},
			want: &ListShipmentsOutput{
				Shipments: []*Shipment{shipments[4], shipments[3], shipments[2], shipments[1], shipments[0]},
			},
		},
		{
			name:  "should order by id descending when created at the same time",
			setup: NewSetupFunc(GeneratePutRequests(sameInstant)...),
			args:  &ListShipmentsInput{},
			want: &ListShipmentsOutput{
				Shipments: []*Shipment{sameInstant[2], sameInstant[1], sameInstant[0]},
			},
		},
		{
			name:  "should order by time when created within the same second",
			setup: NewSetupFunc(GeneratePutRequests(subSecond)...),
			args:  &ListShipmentsInput{},
			want: &ListShipmentsOutput{
				Shipments: []*Shipment{subSecond[2], subSecond[1], subSecond[0]},
			},
		},
		{
			name:  "should return at most size shipments",
			setup: NewSetupFunc(GeneratePutRequests(shipments)...),
			args:  &ListShipmentsInput{Size: 2},
			want: &ListShipmentsOutput{
				Shipments: []*Shipment{shipments[4], shipments[3]},
			},
		},
		{
			name:  "should return only shipments matching filters",
			setup: NewSetupFunc(GeneratePutRequests(append([]*Shipment{izmir}, shipments...))...),
			args: &ListShipmentsInput{
				Origin:      "Izmir",
				Destination: "Ankara",
			},
			want: &ListShipmentsOutput{
				Shipments: []*Shipment{izmir},
			},
		},
	}
	runTestsParallel[*ListShipmentsInput, *ListShipmentsOutput](t, "ListShipments()", tests,
		func(client Client, args *ListShipmentsInput) (*ListShipmentsOutput, error) {
			return client.ListShipments(context.Background(), args)
		})
}

func TestNewerFirst(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a    *Shipment
		b    *Shipment
		want bool
	}{
		{
			name: "sub-second record is newer than the exact second",
			a:    NewTestShipment("A", DefaultTestDate.Add(120*time.Millisecond)),
			b:    NewTestShipment("B", DefaultTestDate),
			want: true,
		},
		{
			name: "exact second is older than a sub-second record",
			a:    NewTestShipment("A", DefaultTestDate),
			b:    NewTestShipment("B", DefaultTestDate.Add(120*time.Millisecond)),
			want: false,
		},
		{
			name: "longer fraction is compared by value",
			a:    NewTestShipment("A", DefaultTestDate.Add(123*time.Millisecond)),
			b:    NewTestShipment("B", DefaultTestDate.Add(120*time.Millisecond)),
			want: true,
		},
		{
			name: "shorter fraction is compared by value",
			a:    NewTestShipment("A", DefaultTestDate.Add(120*time.Millisecond)),
			b:    NewTestShipment("B", DefaultTestDate.Add(123*time.Millisecond)),
			want: false,
		},
		{
			name: "same instant falls back to id descending",
			a:    NewTestShipment("B", DefaultTestDate.Add(time.Nanosecond)),
			b:    NewTestShipment("A", DefaultTestDate.Add(time.Nanosecond)),
			want: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := newerFirst(tt.a, tt.b); got != tt.want {
				t.Errorf("newerFirst(%s, %s) = %v, want %v", tt.a.CreatedAt, tt.b.CreatedAt, got, tt.want)
			}
		})
	}
}

func TestClientCreateThenList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client, clean := prepareTestClient(t, ctx, NewSetupFunc(), MockClock{t: DefaultTestDate})
	defer clean()

	created, err := client.CreateShipment(ctx, NewCreateShipmentInput("A-101"))
	_ = assertError(t, err, nil, "CreateShipment()")

	listed, err := client.ListShipments(ctx, &ListShipmentsInput{})
	_ = assertError(t, err, nil, "ListShipments()")
	assertDeepEqual(t, listed.Shipments, []*Shipment{created.Shipment}, "ListShipments()")
}

func TestClientDeleteShipment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	shipments := GenerateExpectedShipments("A", DefaultTestDate, 3)
	client, clean := prepareTestClient(t, ctx, NewSetupFunc(GeneratePutRequests(shipments)...), MockClock{})
	defer clean()

	_, err := client.DeleteShipment(ctx, &DeleteShipmentInput{ID: shipments[1].ID})
	_ = assertError(t, err, nil, "DeleteShipment()")

	_, err = client.DeleteShipment(ctx, &DeleteShipmentInput{ID: "B-101"})
	_ = assertError(t, err, nil, "DeleteShipment() not existing id")

	listed, err := client.ListShipments(ctx, &ListShipmentsInput{})
	_ = assertError(t, err, nil, "ListShipments()")
	assertDeepEqual(t, listed.Shipments, []*Shipment{shipments[2], shipments[0]}, "ListShipments()")
}

func TestClientDeleteAllShipments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		count int
	}{
		{name: "empty table", count: 0},
		{name: "single batch", count: 3},
		{name: "multiple batches", count: 60},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			shipments := GenerateExpectedShipments("A", DefaultTestDate, tt.count)
			client, clean := prepareTestClient(t, ctx, NewSetupFunc(GeneratePutRequests(shipments)...), MockClock{})
			defer clean()

			out, err := client.DeleteAllShipments(ctx, &DeleteAllShipmentsInput{})
			_ = assertError(t, err, nil, "DeleteAllShipments()")
			assertDeepEqual(t, out, &DeleteAllShipmentsOutput{Deleted: tt.count}, "DeleteAllShipments()")

			listed, err := client.ListShipments(ctx, nil)
			_ = assertError(t, err, nil, "ListShipments()")
			assertDeepEqual(t, listed.Shipments, []*Shipment{}, "ListShipments()")
		})
	}
}

func TestClientDeleteAllShipmentsUsesBackOffPerBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	shipments := GenerateExpectedShipments("A", DefaultTestDate, 60)
	tableName, raw, clean := SetupDynamoDB(t, GeneratePutRequests(shipments)...)
	defer clean()
	var created int32
	client, err := NewFromConfig(aws.Config{},
		WithTableName(tableName),
		WithAWSDynamoDBClient(raw),
		func(o *ClientOptions) {
			o.BatchWriteBackOff = func() backoff.BackOff {
				atomic.AddInt32(&created, 1)
				return &backoff.ZeroBackOff{}
			}
		})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	out, err := client.DeleteAllShipments(ctx, nil)
	_ = assertError(t, err, nil, "DeleteAllShipments()")
	assertDeepEqual(t, out, &DeleteAllShipmentsOutput{Deleted: 60}, "DeleteAllShipments()")
	if got := atomic.LoadInt32(&created); got != 3 {
		t.Errorf("BatchWriteBackOff called %d times, want 3", got)
	}
}

func TestWaitBackOff(t *testing.T) {
	t.Parallel()
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	tests := []struct {
		name string
		ctx  context.Context
		b    backoff.BackOff
		want error
	}{
		{
			name: "should return after the interval",
			ctx:  context.Background(),
			b:    backoff.NewConstantBackOff(time.Millisecond),
			want: nil,
		},
		{
			name: "should stop when the schedule is exhausted",
			ctx:  context.Background(),
			b:    &backoff.StopBackOff{},
			want: errBackOffExhausted,
		},
		{
			name: "should stop when the context is done",
			ctx:  canceled,
			b:    backoff.WithContext(backoff.NewConstantBackOff(time.Hour), canceled),
			want: context.Canceled,
		},
		{
			name: "should not wait out the interval when the context is done",
			ctx:  canceled,
			b:    backoff.NewConstantBackOff(time.Hour),
			want: context.Canceled,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_ = assertError(t, waitBackOff(tt.ctx, tt.b), tt.want, "waitBackOff()")
		})
	}
}

func TestNewBatchWriteBackOffGrows(t *testing.T) {
	t.Parallel()
	b := newBatchWriteBackOff()
	first := b.NextBackOff()
	if first <= 0 || first == backoff.Stop {
		t.Fatalf("NextBackOff() = %v, want a positive wait", first)
	}
	var last time.Duration
	for i := 0; i < 10; i++ {
		last = b.NextBackOff()
	}
	if last <= first {
		t.Errorf("NextBackOff() after 10 attempts = %v, want more than %v", last, first)
	}
	if last > 3*time.Second {
		t.Errorf("NextBackOff() = %v, want at most the max interval with jitter", last)
	}
}

func TestClientShouldWrapStubbedFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cause := errors.New("stubbed")
	newClient := func(opt func(*ClientOptions)) Client {
		client, err := NewFromConfig(aws.Config{}, opt)
		if err != nil {
			t.Fatalf("NewFromConfig() error = %v", err)
		}
		return client
	}
	buildFailure := newClient(func(o *ClientOptions) {
		o.BuildExpression = func(b expression.Builder) (expression.Expression, error) {
			return expression.Expression{}, cause
		}
	})
	marshalFailure := newClient(func(o *ClientOptions) {
		o.MarshalMap = func(in interface{}) (map[string]types.AttributeValue, error) {
			return nil, cause
		}
	})

	_, err := buildFailure.CreateShipment(ctx, NewCreateShipmentInput("A-101"))
	var buildErr BuildingExpressionError
	if !errors.As(err, &buildErr) || !errors.Is(err, cause) {
		t.Errorf("CreateShipment() error = %v, want BuildingExpressionError", err)
	}
	_, err = buildFailure.ListShipments(ctx, &ListShipmentsInput{Origin: "Istanbul"})
	if !errors.As(err, &buildErr) {
		t.Errorf("ListShipments() error = %v, want BuildingExpressionError", err)
	}
	_, err = buildFailure.DeleteAllShipments(ctx, nil)
	if !errors.As(err, &buildErr) {
		t.Errorf("DeleteAllShipments() error = %v, want BuildingExpressionError", err)
	}
	_, err = marshalFailure.CreateShipment(ctx, NewCreateShipmentInput("A-101"))
	var marshalErr MarshalingAttributeError
	if !errors.As(err, &marshalErr) || !errors.Is(err, cause) {
		t.Errorf("CreateShipment() error = %v, want MarshalingAttributeError", err)
	}
}

func runTestsParallel[Args any, Want any](t *testing.T, prefix string,
	tests []ClientTestCase[Args, Want], operation func(Client, Args) (Want, error)) {
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, clean := prepareTestClient(t, context.Background(), tt.setup, tt.sdkClock)
			defer clean()
			result, err := operation(client, tt.args)
			err = assertError(t, err, tt.wantErr, prefix)
			if err != nil || tt.wantErr != nil {
				return
			}
			assertDeepEqual(t, result, tt.want, prefix)
		})
	}
}

func assertError(t *testing.T, got, want error, prefix string) error {
	t.Helper()
	if want != nil {
		if !errors.Is(got, want) {
			t.Errorf("%s error = %v, want %v", prefix, got, want)
			return got
		}
		return nil
	}
	if got != nil {
		t.Errorf("%s unexpected error = %v", prefix, got)
		return got
	}
	return nil
}

func assertDeepEqual(t *testing.T, got, want any, prefix string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		v1, _ := json.Marshal(got)
		v2, _ := json.Marshal(want)
		t.Errorf("%s got = %v, want %v", prefix, string(v1), string(v2))
	}
}

const testGeneratedID = "generated-101"

func prepareTestClient(t *testing.T, ctx context.Context,
	setupTable func(*testing.T) (string, *dynamodb.Client, func()),
	sdkClock clock.Clock,
) (Client, func()) {
	t.Helper()
	tableName, raw, clean := setupTable(t)
	optFns := []func(*ClientOptions){
		WithTableName(tableName),
		WithAWSDynamoDBClient(raw),
		WithClock(sdkClock),
		WithIDGenerator(func() string {
			return testGeneratedID
		}),
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		t.Fatalf("failed to load aws config: %s\n", err)
		return nil, nil
	}
	client, err := NewFromConfig(cfg, optFns...)
	if err != nil {
		t.Fatalf("failed to create PaketPilot client: %s\n", err)
		return nil, nil
	}
	return client, clean
}

func Date(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC)
}

func NewCreateShipmentInput(id string) *CreateShipmentInput {
	data := test.NewShipmentData(id)
	return &CreateShipmentInput{
		ID:          data.ID,
		Origin:      data.Origin,
		Destination: data.Destination,
		ItemType:    data.ItemType,
		Quantity:    data.Quantity,
	}
}

func NewTestShipment(id string, now time.Time) *Shipment {
	data := test.NewShipmentData(id)
	return NewShipment(data.ID, data.Origin, data.Destination, data.ItemType, data.Quantity, now)
}

func NewPutRequestWithShipment(id string, now time.Time) *types.PutRequest {
	return &types.PutRequest{
		Item: marshalMapUnsafe(NewTestShipment(id, now)),
	}
}

func GenerateExpectedShipments(idPrefix string, now time.Time, count int) []*Shipment {
	shipments := make([]*Shipment, count)
	for i := 0; i < count; i++ {
		now = now.Add(time.Minute)
		shipments[i] = NewTestShipment(fmt.Sprintf("%s-%d", idPrefix, i), now)
	}
	return shipments
}

func GeneratePutRequests(shipments []*Shipment) []*types.PutRequest {
	var puts []*types.PutRequest
	for _, shipment := range shipments {
		puts = append(puts, &types.PutRequest{
			Item: marshalMapUnsafe(shipment),
		})
	}
	return puts
}

func marshalMapUnsafe(s *Shipment) map[string]types.AttributeValue {
	item, _ := attributevalue.MarshalMap(s)
	return item
}

type MockClock struct {
	t time.Time
}

func (m MockClock) Now() time.Time {
	return m.t
}

func WithClock(clock clock.Clock) func(s *ClientOptions) {
	return func(s *ClientOptions) {
		if clock != nil {
			s.Clock = clock
		}
	}
}
