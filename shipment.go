package paketpilot

import (
	"strings"
	"time"

	"github.com/vvatanabe/paketpilot/internal/clock"
)

const contentSeparator = "."

// NewShipment returns a Shipment stamped with the given creation time.
func NewShipment(id, origin, destination, itemType, quantity string, now time.Time) *Shipment {
	return &Shipment{
		ID:          id,
		Origin:      origin,
		Destination: destination,
		ItemType:    itemType,
		Quantity:    quantity,
		CreatedAt:   clock.FormatRFC3339Nano(now),
	}
}

// Shipment is the record persisted in the remote table.
// Quantity is kept as entered; it is never parsed as a number.
type Shipment struct {
	ID          string `json:"id" dynamodbav:"id"`
	Origin      string `json:"origin" dynamodbav:"origin"`
	Destination string `json:"destination" dynamodbav:"destination"`
	ItemType    string `json:"item_type" dynamodbav:"item_type"`
	Quantity    string `json:"quantity" dynamodbav:"quantity"`
	CreatedAt   string `json:"created_at" dynamodbav:"created_at"`
}

// Content returns the string encoded into the shipment's QR code.
func (s *Shipment) Content() string {
	return BuildContent(s.Origin, s.Destination, s.ItemType, s.Quantity)
}

// BuildContent joins the shipment fields the same way Shipment.Content does.
func BuildContent(origin, destination, itemType, quantity string) string {
	return strings.Join([]string{origin, destination, itemType, quantity}, contentSeparator)
}

// newerFirst compares parsed creation times. RFC3339Nano strings drop trailing zeros
// of the fraction, so they do not sort lexically.
func newerFirst(a, b *Shipment) bool {
	at := clock.RFC3339NanoToTime(a.CreatedAt)
	bt := clock.RFC3339NanoToTime(b.CreatedAt)
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return a.ID > b.ID
}
