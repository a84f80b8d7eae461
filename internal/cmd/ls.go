package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/vvatanabe/paketpilot"
)

func (f CommandFactory) CreateLSCommand(flgs *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List shipments, newest first",
		Long:  `List shipments, newest first, optionally filtered by origin, destination and type.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, _, err := f.CreatePaketPilotClient(ctx, flgs)
			if err != nil {
				return err
			}
			out, err := client.ListShipments(ctx, &paketpilot.ListShipmentsInput{
				Origin:      flgs.Origin,
				Destination: flgs.Destination,
				ItemType:    flgs.ItemType,
			})
			if err != nil {
				return err
			}
			printMessageWithData("", LSResult{Shipments: out.Shipments})
			return nil
		},
	}
}

type LSResult struct {
	Shipments []*paketpilot.Shipment `json:"shipments"`
}

func init() {
	c := defaultCommandFactory.CreateLSCommand(flgs)
	setDefaultFlags(c, flgs)
	c.Flags().StringVar(&flgs.Origin, flagMap.Origin.Name, flagMap.Origin.Value, flagMap.Origin.Usage)
	c.Flags().StringVar(&flgs.Destination, flagMap.Destination.Name, flagMap.Destination.Value, flagMap.Destination.Usage)
	c.Flags().StringVar(&flgs.ItemType, flagMap.ItemType.Name, flagMap.ItemType.Value, flagMap.ItemType.Usage)
	root.AddCommand(c)
}
