package cmd

import (
	"github.com/spf13/cobra"
)

func (f CommandFactory) CreateContentsCommand(flgs *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "contents",
		Short: "List QR code contents saved on this machine, newest first",
		Long:  `List QR code contents saved in the local content log, newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contents, err := f.CreateContentLog(flgs)
			if err != nil {
				return err
			}
			list, err := contents.List()
			if err != nil {
				return err
			}
			printMessageWithData("", ContentsResult{Contents: list})
			return nil
		},
	}
}

type ContentsResult struct {
	Contents []string `json:"contents"`
}

func init() {
	c := defaultCommandFactory.CreateContentsCommand(flgs)
	c.Flags().StringVar(&flgs.ContentLogPath, flagMap.ContentLogPath.Name, flagMap.ContentLogPath.Value, flagMap.ContentLogPath.Usage)
	root.AddCommand(c)
}
