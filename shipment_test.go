package paketpilot_test

import (
	"testing"
	"time"

	"github.com/vvatanabe/paketpilot"
)

func TestShipmentContent(t *testing.T) {
	tests := []struct {
		name     string
		shipment *paketpilot.Shipment
		want     string
	}{
		{
			name: "should join fields with dots",
			shipment: &paketpilot.Shipment{
				Origin:      "Istanbul",
				Destination: "Ankara",
				ItemType:    "Box",
				Quantity:    "3",
			},
			want: "Istanbul.Ankara.Box.3",
		},
		{
			name:     "should keep empty fields",
			shipment: &paketpilot.Shipment{Origin: "Istanbul"},
			want:     "Istanbul...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shipment.Content(); got != tt.want {
				t.Errorf("Content() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewShipment(t *testing.T) {
	s := paketpilot.NewShipment("A-101", "Istanbul", "Ankara", "Box", "3", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC))
	if s.CreatedAt != "2023-12-01T00:00:00Z" {
		t.Errorf("CreatedAt = %s", s.CreatedAt)
	}
	if s.Content() != paketpilot.BuildContent("Istanbul", "Ankara", "Box", "3") {
		t.Errorf("Content() = %s", s.Content())
	}
}
