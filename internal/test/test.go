package test

import (
	"errors"
	"fmt"
)

var ErrorTest = errors.New("test")

func NewShipmentData(id string) ShipmentData {
	return ShipmentData{
		ID:          id,
		Origin:      "Istanbul",
		Destination: "Ankara",
		ItemType:    fmt.Sprintf("Box-%s", id),
		Quantity:    "3",
	}
}

type ShipmentData struct {
	ID          string
	Origin      string
	Destination string
	ItemType    string
	Quantity    string
}
