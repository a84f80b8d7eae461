package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/vvatanabe/paketpilot"
)

func (f CommandFactory) CreateCreateCommand(flgs *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Encode a shipment into a QR code and save it",
		Long:  `Encode a shipment into a QR code, save the record to DynamoDB and append its content to the local content log.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, _, registrar, _, err := f.createAll(ctx, flgs)
			if err != nil {
				return err
			}
			out, err := registrar.Register(ctx, &paketpilot.RegisterInput{
				Origin:      flgs.Origin,
				Destination: flgs.Destination,
				ItemType:    flgs.ItemType,
				Quantity:    flgs.Quantity,
			})
			if err != nil {
				return err
			}
			result := CreateResult{
				Shipment: out.Shipment,
				Content:  out.Content,
			}
			if flgs.Output != "" {
				if err := os.WriteFile(flgs.Output, out.QRCode, 0o644); err != nil {
					return err
				}
				result.QRCodeFile = flgs.Output
			}
			printMessageWithData("", result)
			return nil
		},
	}
}

type CreateResult struct {
	Shipment   *paketpilot.Shipment `json:"shipment"`
	Content    string               `json:"content"`
	QRCodeFile string               `json:"qr_code_file,omitempty"`
}

func init() {
	c := defaultCommandFactory.CreateCreateCommand(flgs)
	setDefaultFlags(c, flgs)
	c.Flags().StringVar(&flgs.Origin, flagMap.Origin.Name, flagMap.Origin.Value, flagMap.Origin.Usage)
	c.Flags().StringVar(&flgs.Destination, flagMap.Destination.Name, flagMap.Destination.Value, flagMap.Destination.Usage)
	c.Flags().StringVar(&flgs.ItemType, flagMap.ItemType.Name, flagMap.ItemType.Value, flagMap.ItemType.Usage)
	c.Flags().StringVar(&flgs.Quantity, flagMap.Quantity.Name, flagMap.Quantity.Value, flagMap.Quantity.Usage)
	c.Flags().StringVar(&flgs.Output, flagMap.Output.Name, flagMap.Output.Value, flagMap.Output.Usage)
	root.AddCommand(c)
}
