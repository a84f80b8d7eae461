package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (f CommandFactory) CreateInitCommand(flgs *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the DynamoDB table holding shipments",
		Long:  `Create the DynamoDB table holding shipments and wait until it becomes active.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := f.CreateTable(ctx, flgs); err != nil {
				return err
			}
			fmt.Printf("... table %s is ready\n", flgs.TableName)
			return nil
		},
	}
}

func init() {
	c := defaultCommandFactory.CreateInitCommand(flgs)
	c.Flags().StringVar(&flgs.TableName, flagMap.TableName.Name, flagMap.TableName.Value, flagMap.TableName.Usage)
	c.Flags().StringVar(&flgs.EndpointURL, flagMap.EndpointURL.Name, flagMap.EndpointURL.Value, flagMap.EndpointURL.Usage)
	c.Flags().IntVar(&flgs.RetryMaxAttempts, flagMap.RetryMaxAttempts.Name, flagMap.RetryMaxAttempts.Value, flagMap.RetryMaxAttempts.Usage)
	root.AddCommand(c)
}
