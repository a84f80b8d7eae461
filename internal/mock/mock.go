package mock

import (
	"context"
	"errors"
	"time"

	"github.com/vvatanabe/paketpilot"
	"github.com/vvatanabe/paketpilot/internal/clock"
)

var ErrNotImplemented = errors.New("not implemented")

var SuccessfulMockClient = &Client{
	CreateShipmentFunc: func(ctx context.Context, params *paketpilot.CreateShipmentInput) (*paketpilot.CreateShipmentOutput, error) {
		return &paketpilot.CreateShipmentOutput{
			Shipment: &paketpilot.Shipment{
				ID:          "A-101",
				Origin:      params.Origin,
				Destination: params.Destination,
				ItemType:    params.ItemType,
				Quantity:    params.Quantity,
			},
		}, nil
	},
	GetShipmentFunc: func(ctx context.Context, params *paketpilot.GetShipmentInput) (*paketpilot.GetShipmentOutput, error) {
		return &paketpilot.GetShipmentOutput{
			Shipment: &paketpilot.Shipment{
				ID: "A-101",
			},
		}, nil
	},
	ListShipmentsFunc: func(ctx context.Context, params *paketpilot.ListShipmentsInput) (*paketpilot.ListShipmentsOutput, error) {
		return &paketpilot.ListShipmentsOutput{
			Shipments: []*paketpilot.Shipment{
				{ID: "A-101"},
			},
		}, nil
	},
	DeleteShipmentFunc: func(ctx context.Context, params *paketpilot.DeleteShipmentInput) (*paketpilot.DeleteShipmentOutput, error) {
		return &paketpilot.DeleteShipmentOutput{}, nil
	},
	DeleteAllShipmentsFunc: func(ctx context.Context, params *paketpilot.DeleteAllShipmentsInput) (*paketpilot.DeleteAllShipmentsOutput, error) {
		return &paketpilot.DeleteAllShipmentsOutput{Deleted: 1}, nil
	},
}

type Client struct {
	CreateShipmentFunc     func(ctx context.Context, params *paketpilot.CreateShipmentInput) (*paketpilot.CreateShipmentOutput, error)
	GetShipmentFunc        func(ctx context.Context, params *paketpilot.GetShipmentInput) (*paketpilot.GetShipmentOutput, error)
	ListShipmentsFunc      func(ctx context.Context, params *paketpilot.ListShipmentsInput) (*paketpilot.ListShipmentsOutput, error)
	DeleteShipmentFunc     func(ctx context.Context, params *paketpilot.DeleteShipmentInput) (*paketpilot.DeleteShipmentOutput, error)
	DeleteAllShipmentsFunc func(ctx context.Context, params *paketpilot.DeleteAllShipmentsInput) (*paketpilot.DeleteAllShipmentsOutput, error)
}

func (m Client) CreateShipment(ctx context.Context, params *paketpilot.CreateShipmentInput) (*paketpilot.CreateShipmentOutput, error) {
	if m.CreateShipmentFunc != nil {
		return m.CreateShipmentFunc(ctx, params)
	}
	return nil, ErrNotImplemented
}

func (m Client) GetShipment(ctx context.Context, params *paketpilot.GetShipmentInput) (*paketpilot.GetShipmentOutput, error) {
	if m.GetShipmentFunc != nil {
		return m.GetShipmentFunc(ctx, params)
	}
	return nil, ErrNotImplemented
}

func (m Client) ListShipments(ctx context.Context, params *paketpilot.ListShipmentsInput) (*paketpilot.ListShipmentsOutput, error) {
	if m.ListShipmentsFunc != nil {
		return m.ListShipmentsFunc(ctx, params)
	}
	return nil, ErrNotImplemented
}

func (m Client) DeleteShipment(ctx context.Context, params *paketpilot.DeleteShipmentInput) (*paketpilot.DeleteShipmentOutput, error) {
	if m.DeleteShipmentFunc != nil {
		return m.DeleteShipmentFunc(ctx, params)
	}
	return nil, ErrNotImplemented
}

func (m Client) DeleteAllShipments(ctx context.Context, params *paketpilot.DeleteAllShipmentsInput) (*paketpilot.DeleteAllShipmentsOutput, error) {
	if m.DeleteAllShipmentsFunc != nil {
		return m.DeleteAllShipmentsFunc(ctx, params)
	}
	return nil, ErrNotImplemented
}

type ContentLog struct {
	AppendFunc func(content string) error
	ClearFunc  func() error
}

func (m ContentLog) Append(content string) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(content)
	}
	return ErrNotImplemented
}

func (m ContentLog) Clear() error {
	if m.ClearFunc != nil {
		return m.ClearFunc()
	}
	return ErrNotImplemented
}

type Clock struct {
	T time.Time
}

func (m Clock) Now() time.Time {
	return m.T
}

func WithClock(clock clock.Clock) func(s *paketpilot.ClientOptions) {
	return func(s *paketpilot.ClientOptions) {
		if clock != nil {
			s.Clock = clock
		}
	}
}
