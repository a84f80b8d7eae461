package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	errContentNotProvided = errors.New("content was not provided")
	errContentNotFound    = errors.New("content not found")
)

func (f CommandFactory) CreateForgetCommand(flgs *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Remove one entry from the local content log",
		Long:  `Remove the first entry equal to --content from the local content log. Shipment records are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contents, err := f.CreateContentLog(flgs)
			if err != nil {
				return err
			}
			return forgetContent(contents, flgs.Content)
		},
	}
}

func forgetContent(contents ContentLog, content string) error {
	if content == "" {
		return errContentNotProvided
	}
	removed, err := contents.Remove(content)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%v: %s", errContentNotFound, content)
	}
	fmt.Printf("... removed %s\n", content)
	return nil
}

func init() {
	c := defaultCommandFactory.CreateForgetCommand(flgs)
	c.Flags().StringVar(&flgs.ContentLogPath, flagMap.ContentLogPath.Name, flagMap.ContentLogPath.Value, flagMap.ContentLogPath.Usage)
	c.Flags().StringVar(&flgs.Content, flagMap.Content.Name, flagMap.Content.Value, flagMap.Content.Usage)
	root.AddCommand(c)
}
