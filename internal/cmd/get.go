package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/vvatanabe/paketpilot"
)

var errShipmentNotFound = errors.New("shipment not found")

func (f CommandFactory) CreateGetCommand(flgs *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Get a shipment by ID",
		Long:  `Get a shipment by ID.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, _, err := f.CreatePaketPilotClient(ctx, flgs)
			if err != nil {
				return err
			}
			shipment, err := getShipment(ctx, client, flgs.ID)
			if err != nil {
				return err
			}
			printMessageWithData("", GetResult{Shipment: shipment, Content: shipment.Content()})
			return nil
		},
	}
}

type GetResult struct {
	Shipment *paketpilot.Shipment `json:"shipment"`
	Content  string               `json:"content"`
}

func getShipment(ctx context.Context, client paketpilot.Client, id string) (*paketpilot.Shipment, error) {
	out, err := client.GetShipment(ctx, &paketpilot.GetShipmentInput{ID: id})
	if err != nil {
		return nil, err
	}
	if out.Shipment == nil {
		return nil, errorWithID(errShipmentNotFound, id)
	}
	return out.Shipment, nil
}

func init() {
	c := defaultCommandFactory.CreateGetCommand(flgs)
	setDefaultFlags(c, flgs)
	c.Flags().StringVar(&flgs.ID, flagMap.ID.Name, flagMap.ID.Value, flagMap.ID.Usage)
	root.AddCommand(c)
}
