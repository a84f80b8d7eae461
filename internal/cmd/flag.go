package cmd

import (
	"github.com/vvatanabe/paketpilot"
	"github.com/vvatanabe/paketpilot/internal/constant"
)

var flgs = &Flags{}

type Flags struct {
	TableName        string
	EndpointURL      string
	RetryMaxAttempts int
	ContentLogPath   string
	QRCodeSize       int

	ID          string
	Origin      string
	Destination string
	ItemType    string
	Quantity    string
	Content     string
	Output      string
	Addr        string
}

var flagMap = FlagMap{
	TableName: FlagSet[string]{
		Name:  "table-name",
		Usage: "The name of the table to contain the shipments.",
		Value: paketpilot.DefaultTableName,
	},
	EndpointURL: FlagSet[string]{
		Name:  "endpoint-url",
		Usage: "Override command's default URL with the given URL.",
		Value: "",
	},
	RetryMaxAttempts: FlagSet[int]{
		Name:  "retry-max-attempts",
		Usage: "Maximum number of attempts for a failed DynamoDB request.",
		Value: paketpilot.DefaultRetryMaxAttempts,
	},
	ContentLogPath: FlagSet[string]{
		Name:  "content-log",
		Usage: "Path of the local content log. Defaults to ~/.paketpilot/contents.json.",
		Value: "",
	},
	QRCodeSize: FlagSet[int]{
		Name:  "qr-size",
		Usage: "Width and height of generated QR code images in pixels.",
		Value: constant.DefaultQRCodeSize,
	},
	ID: FlagSet[string]{
		Name:  "id",
		Usage: "Shipment ID.",
		Value: "",
	},
	Origin: FlagSet[string]{
		Name:  "origin",
		Usage: "City the shipment is sent from.",
		Value: "",
	},
	Destination: FlagSet[string]{
		Name:  "destination",
		Usage: "City the shipment is sent to.",
		Value: "",
	},
	ItemType: FlagSet[string]{
		Name:  "type",
		Usage: "Type of the shipped item.",
		Value: "",
	},
	Quantity: FlagSet[string]{
		Name:  "quantity",
		Usage: "Number of shipped items.",
		Value: "",
	},
	Content: FlagSet[string]{
		Name:  "content",
		Usage: "QR code content as stored in the content log.",
		Value: "",
	},
	Output: FlagSet[string]{
		Name:  "out",
		Usage: "File to write the QR code PNG image to.",
		Value: "",
	},
	Addr: FlagSet[string]{
		Name:  "addr",
		Usage: "Address the HTTP API listens on.",
		Value: constant.DefaultListenAddr,
	},
}

type FlagSet[T any] struct {
	Name  string
	Usage string
	Value T
}

type FlagMap struct {
	TableName        FlagSet[string]
	EndpointURL      FlagSet[string]
	RetryMaxAttempts FlagSet[int]
	ContentLogPath   FlagSet[string]
	QRCodeSize       FlagSet[int]
	ID               FlagSet[string]
	Origin           FlagSet[string]
	Destination      FlagSet[string]
	ItemType         FlagSet[string]
	Quantity         FlagSet[string]
	Content          FlagSet[string]
	Output           FlagSet[string]
	Addr             FlagSet[string]
}
