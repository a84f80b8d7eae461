package paketpilot

import (
	"context"
	"errors"

	"github.com/vvatanabe/paketpilot/internal/constant"
	"github.com/vvatanabe/paketpilot/qr"
)

// ContentLog is the local history a Registrar appends encoded contents to.
type ContentLog interface {
	Append(content string) error
	Clear() error
}

// RegistrarOptions holds configuration options for a Registrar.
type RegistrarOptions struct {
	// QRCodeSize is the width and height of the generated QR code image in pixels.
	QRCodeSize int
	// Encode turns content into PNG bytes. The default is qr.Encode.
	Encode func(content string, size int) ([]byte, error)
}

// WithQRCodeSize is an option function to set the size of generated QR code images.
func WithQRCodeSize(size int) func(o *RegistrarOptions) {
	return func(o *RegistrarOptions) {
		if size > 0 {
			o.QRCodeSize = size
		}
	}
}

// WithEncoder is an option function to replace the QR code encoder.
func WithEncoder(encode func(content string, size int) ([]byte, error)) func(o *RegistrarOptions) {
	return func(o *RegistrarOptions) {
		if encode != nil {
			o.Encode = encode
		}
	}
}

// NewRegistrar creates a Registrar writing records through client and contents to contentLog.
func NewRegistrar(client Client, contentLog ContentLog, opts ...func(o *RegistrarOptions)) *Registrar {
	o := &RegistrarOptions{
		QRCodeSize: constant.DefaultQRCodeSize,
		Encode:     qr.Encode,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Registrar{
		client:     client,
		contentLog: contentLog,
		qrCodeSize: o.QRCodeSize,
		encode:     o.Encode,
	}
}

// Registrar ties the record store and the local content log together.
type Registrar struct {
	client     Client
	contentLog ContentLog
	qrCodeSize int
	encode     func(content string, size int) ([]byte, error)
}

// RegisterInput represents the shipment metadata entered by a user.
type RegisterInput struct {
	Origin      string
	Destination string
	ItemType    string
	Quantity    string
}

// RegisterOutput represents the result of a register operation.
type RegisterOutput struct {
	// Shipment is nil when the record could not be saved.
	Shipment *Shipment
	// Content is the string encoded into QRCode.
	Content string
	// QRCode holds the PNG image bytes.
	QRCode []byte
}

// Register encodes the shipment into a QR code, saves the record and appends its content to the content log.
// When encoding fails nothing is saved. The content is appended even if saving the record fails,
// in which case the save error is returned together with any append error.
func (r *Registrar) Register(ctx context.Context, params *RegisterInput) (*RegisterOutput, error) {
	if params == nil {
		params = &RegisterInput{}
	}
	content := BuildContent(params.Origin, params.Destination, params.ItemType, params.Quantity)
	png, err := r.encode(content, r.qrCodeSize)
	if err != nil {
		return &RegisterOutput{}, err
	}
	out := &RegisterOutput{
		Content: content,
		QRCode:  png,
	}
	created, saveErr := r.client.CreateShipment(ctx, &CreateShipmentInput{
		Origin:      params.Origin,
		Destination: params.Destination,
		ItemType:    params.ItemType,
		Quantity:    params.Quantity,
	})
	if saveErr == nil {
		out.Shipment = created.Shipment
	}
	appendErr := r.contentLog.Append(content)
	return out, errors.Join(saveErr, appendErr)
}

// ClearAll deletes every shipment record and then clears the content log.
// The content log is left untouched when deleting the records fails.
func (r *Registrar) ClearAll(ctx context.Context) (*DeleteAllShipmentsOutput, error) {
	out, err := r.client.DeleteAllShipments(ctx, &DeleteAllShipmentsInput{})
	if err != nil {
		return out, err
	}
	if err := r.contentLog.Clear(); err != nil {
		return out, err
	}
	return out, nil
}
