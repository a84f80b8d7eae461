package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvatanabe/paketpilot/qr"
)

var (
	errOutputNotProvided = errors.New("--out was not provided")
	errNoQRCodeSource    = errors.New("either --id or --content must be provided")
)

func (f CommandFactory) CreateQRCodeCommand(flgs *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "qrcode",
		Short: "Write the QR code of a shipment or a saved content to a PNG file",
		Long:  `Write the QR code of a shipment (--id) or of a raw content (--content) to a PNG file (--out).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flgs.Output == "" {
				return errOutputNotProvided
			}
			content := flgs.Content
			if flgs.ID != "" {
				ctx := context.Background()
				client, _, err := f.CreatePaketPilotClient(ctx, flgs)
				if err != nil {
					return err
				}
				shipment, err := getShipment(ctx, client, flgs.ID)
				if err != nil {
					return err
				}
				content = shipment.Content()
			}
			if content == "" {
				return errNoQRCodeSource
			}
			if err := qr.WriteFile(content, flgs.QRCodeSize, flgs.Output); err != nil {
				return err
			}
			fmt.Printf("... QR code for %s written to %s\n", content, flgs.Output)
			return nil
		},
	}
}

func init() {
	c := defaultCommandFactory.CreateQRCodeCommand(flgs)
	setDefaultFlags(c, flgs)
	c.Flags().StringVar(&flgs.ID, flagMap.ID.Name, flagMap.ID.Value, flagMap.ID.Usage)
	c.Flags().StringVar(&flgs.Content, flagMap.Content.Name, flagMap.Content.Value, flagMap.Content.Usage)
	c.Flags().StringVar(&flgs.Output, flagMap.Output.Name, flagMap.Output.Value, flagMap.Output.Usage)
	root.AddCommand(c)
}
