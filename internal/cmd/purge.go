package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func (f CommandFactory) CreatePurgeCommand(flgs *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "It will remove all shipments and clear the content log",
		Long:  `It will remove all shipments from the DynamoDB table, then clear the local content log if that succeeded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, _, registrar, _, err := f.createAll(ctx, flgs)
			if err != nil {
				return err
			}
			out, err := registrar.ClearAll(ctx)
			if err != nil {
				return err
			}
			printMessageWithData("", out)
			return nil
		},
	}
}

func init() {
	c := defaultCommandFactory.CreatePurgeCommand(flgs)
	setDefaultFlags(c, flgs)
	root.AddCommand(c)
}
