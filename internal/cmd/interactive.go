package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvatanabe/paketpilot"
	"github.com/vvatanabe/paketpilot/qr"
)

var (
	errUnrecognizedCommand = errors.New("unrecognized command")
	errInvalidParams       = errors.New("invalid params")
)

type ContentLog interface {
	List() ([]string, error)
	Remove(content string) (bool, error)
}

type Interactive struct {
	Client     paketpilot.Client
	Registrar  *paketpilot.Registrar
	ContentLog ContentLog
	QRCodeSize int
	Shipment   *paketpilot.Shipment
}

func (c *Interactive) Run(ctx context.Context, command string, params []string) error {
	switch command {
	case "h", "?", "help":
		return c.help(ctx, params)
	case "ls":
		return c.ls(ctx, params)
	case "contents":
		return c.contents(ctx, params)
	case "create":
		return c.create(ctx, params)
	case "id":
		return c.id(ctx, params)
	case "data":
		return c.data(ctx, params)
	case "qrcode":
		return c.qrcode(ctx, params)
	case "delete":
		return c.delete(ctx, params)
	case "forget":
		return c.forget(ctx, params)
	case "purge":
		return c.purge(ctx, params)
	default:
		fmt.Println(" ... unrecognized command!")
		return errUnrecognizedCommand
	}
}

func (c *Interactive) help(_ context.Context, _ []string) error {
	fmt.Println(`... this is Interactive HELP!
  > ls                                            [List shipments, newest first ... max 10 elements]
  > contents                                      [List QR code contents saved on this machine, newest first]
  > create <origin> <destination> <type> <qty>    [Encode a shipment into a QR code, save it and switch to its ID]
  > forget <content>                              [Remove one entry from the saved contents]
  > purge                                         [It will remove all shipments and clear the saved contents]
  > id <id>                                       [Get a shipment by ID; Interactive is in the shipment mode, from that point on]
    > data                                        [Print the current shipment and its QR code content as JSON]
    > qrcode <file>                               [Write the QR code of the current shipment to a PNG file]
    > delete                                      [Delete the current shipment]
  > id`)
	return nil
}

func (c *Interactive) ls(ctx context.Context, _ []string) error {
	out, err := c.Client.ListShipments(ctx, &paketpilot.ListShipmentsInput{Size: 10})
	if err != nil {
		return err
	}
	if len(out.Shipments) == 0 {
		fmt.Println("No shipments yet!")
		return nil
	}
	fmt.Println("List shipments of latest 10 IDs:")
	for _, s := range out.Shipments {
		fmt.Printf("* ID: %s, content: %s\n", s.ID, s.Content())
	}
	return nil
}

func (c *Interactive) contents(_ context.Context, _ []string) error {
	list, err := c.ContentLog.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No saved contents yet!")
		return nil
	}
	for _, content := range list {
		fmt.Printf("* %s\n", content)
	}
	return nil
}

func (c *Interactive) create(ctx context.Context, params []string) error {
	if len(params) != 4 {
		return fmt.Errorf("%w: create <origin> <destination> <type> <qty>", errInvalidParams)
	}
	out, err := c.Registrar.Register(ctx, &paketpilot.RegisterInput{
		Origin:      params[0],
		Destination: params[1],
		ItemType:    params[2],
		Quantity:    params[3],
	})
	if out != nil && out.Shipment != nil {
		c.Shipment = out.Shipment
	}
	if err != nil {
		return err
	}
	printMessageWithData("Shipment is saved:\n", GetResult{Shipment: out.Shipment, Content: out.Content})
	return nil
}

func (c *Interactive) id(ctx context.Context, params []string) error {
	if len(params) == 0 {
		c.Shipment = nil
		fmt.Println("Going back to standard Interactive mode!")
		return nil
	}
	shipment, err := getShipment(ctx, c.Client, params[0])
	if err != nil {
		return err
	}
	c.Shipment = shipment
	printMessageWithData("Shipment's record is:\n", c.Shipment)
	return nil
}

func (c *Interactive) data(_ context.Context, _ []string) error {
	if c.Shipment == nil {
		return errorCLIModeRestriction("`data`")
	}
	printMessageWithData("Data info:\n", GetResult{Shipment: c.Shipment, Content: c.Shipment.Content()})
	return nil
}

func (c *Interactive) qrcode(_ context.Context, params []string) error {
	if c.Shipment == nil {
		return errorCLIModeRestriction("`qrcode`")
	}
	if len(params) == 0 {
		return fmt.Errorf("%w: qrcode <file>", errInvalidParams)
	}
	if err := qr.WriteFile(c.Shipment.Content(), c.QRCodeSize, params[0]); err != nil {
		return err
	}
	fmt.Printf("QR code is written to %s\n", params[0])
	return nil
}

func (c *Interactive) delete(ctx context.Context, _ []string) error {
	if c.Shipment == nil {
		return errorCLIModeRestriction("`delete`")
	}
	_, err := c.Client.DeleteShipment(ctx, &paketpilot.DeleteShipmentInput{
		ID: c.Shipment.ID,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Shipment ID <%s> is deleted!\n", c.Shipment.ID)
	c.Shipment = nil
	return nil
}

func (c *Interactive) forget(_ context.Context, params []string) error {
	if len(params) == 0 {
		return fmt.Errorf("%w: forget <content>", errInvalidParams)
	}
	return forgetContent(c.ContentLog, params[0])
}

func (c *Interactive) purge(ctx context.Context, _ []string) error {
	out, err := c.Registrar.ClearAll(ctx)
	if err != nil {
		return err
	}
	c.Shipment = nil
	fmt.Printf("Removed %d shipments and cleared saved contents\n", out.Deleted)
	return nil
}
