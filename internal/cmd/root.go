package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"
	"github.com/vvatanabe/paketpilot"
	"github.com/vvatanabe/paketpilot/contentlog"
	"github.com/vvatanabe/paketpilot/internal/constant"
)

type CommandFactory struct {
	CreatePaketPilotClient func(ctx context.Context, flags *Flags) (paketpilot.Client, aws.Config, error)
	CreateContentLog       func(flags *Flags) (*contentlog.Log, error)
	CreateTable            func(ctx context.Context, flags *Flags) error
	Stdin                  io.Reader
}

var defaultCommandFactory = CommandFactory{
	CreatePaketPilotClient: createPaketPilotClient,
	CreateContentLog:       createContentLog,
	CreateTable:            createTable,
	Stdin:                  os.Stdin,
}

var root = defaultCommandFactory.CreateRootCommand(flgs)

func setDefaultFlags(c *cobra.Command, flgs *Flags) {
	c.Flags().StringVar(&flgs.TableName, flagMap.TableName.Name, flagMap.TableName.Value, flagMap.TableName.Usage)
	c.Flags().StringVar(&flgs.EndpointURL, flagMap.EndpointURL.Name, flagMap.EndpointURL.Value, flagMap.EndpointURL.Usage)
	c.Flags().IntVar(&flgs.RetryMaxAttempts, flagMap.RetryMaxAttempts.Name, flagMap.RetryMaxAttempts.Value, flagMap.RetryMaxAttempts.Usage)
	c.Flags().StringVar(&flgs.ContentLogPath, flagMap.ContentLogPath.Name, flagMap.ContentLogPath.Value, flagMap.ContentLogPath.Usage)
	c.Flags().IntVar(&flgs.QRCodeSize, flagMap.QRCodeSize.Name, flagMap.QRCodeSize.Value, flagMap.QRCodeSize.Usage)
}

func (f CommandFactory) CreateRootCommand(flgs *Flags) *cobra.Command {
	return &cobra.Command{
		Use:     "paketpilot",
		Short:   "PaketPilot turns shipment details into QR codes and keeps track of them in Amazon DynamoDB",
		Long:    `PaketPilot turns shipment details into QR codes and keeps track of them in Amazon DynamoDB.`,
		Version: "",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer fmt.Printf("... Interactive is ending\n\n\n")

			fmt.Println("===========================================================")
			fmt.Println(">> Welcome to PaketPilot CLI! [INTERACTIVE MODE]")
			fmt.Println("===========================================================")
			fmt.Println("for help, enter one of the following: ? or h or help")
			fmt.Println("all commands in CLIs need to be typed in lowercase")
			fmt.Println("")

			ctx := context.Background()
			client, contents, registrar, cfg, err := f.createAll(ctx, flgs)
			if err != nil {
				return fmt.Errorf("... %v", err)
			}

			fmt.Println("... AWS session is properly established!")

			fmt.Printf("AWSRegion: %s\n", cfg.Region)
			fmt.Printf("TableName: %s\n", flgs.TableName)
			fmt.Printf("EndpointURL: %s\n", flgs.EndpointURL)
			fmt.Println("")

			c := Interactive{
				Client:     client,
				Registrar:  registrar,
				ContentLog: contents,
				QRCodeSize: flgs.QRCodeSize,
				Shipment:   nil,
			}

			stdin := f.Stdin
			if stdin == nil {
				stdin = os.Stdin
			}
			scanner := bufio.NewScanner(stdin)

			for {
				if c.Shipment != nil {
					fmt.Printf("\nID <%s> >> Enter command: ", c.Shipment.ID)
				} else {
					fmt.Print("\n>> Enter command: ")
				}

				scanned := scanner.Scan()
				if !scanned {
					break
				}

				input := scanner.Text()
				if input == "" {
					continue
				}

				command, params := ParseInput(input)
				switch command {
				case "":
					continue
				case "quit", "q":
					return nil
				default:
					err := c.Run(ctx, command, params)
					if err != nil {
						printError(err)
					}
				}
			}
			return nil
		},
	}
}

func (f CommandFactory) createAll(ctx context.Context, flgs *Flags) (paketpilot.Client, *contentlog.Log, *paketpilot.Registrar, aws.Config, error) {
	client, cfg, err := f.CreatePaketPilotClient(ctx, flgs)
	if err != nil {
		return nil, nil, nil, cfg, err
	}
	contents, err := f.CreateContentLog(flgs)
	if err != nil {
		return nil, nil, nil, cfg, err
	}
	registrar := paketpilot.NewRegistrar(client, contents, paketpilot.WithQRCodeSize(flgs.QRCodeSize))
	return client, contents, registrar, cfg, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %s", err)
	}
	return cfg, nil
}

func createPaketPilotClient(ctx context.Context, flags *Flags) (paketpilot.Client, aws.Config, error) {
	cfg, err := loadAWSConfig(ctx)
	if err != nil {
		return nil, cfg, err
	}
	client, err := paketpilot.NewFromConfig(cfg, clientOptions(flags)...)
	if err != nil {
		return nil, cfg, fmt.Errorf("AWS session could not be established!: %v", err)
	}
	return client, cfg, nil
}

func clientOptions(flags *Flags) []func(*paketpilot.ClientOptions) {
	optFns := []func(*paketpilot.ClientOptions){
		paketpilot.WithTableName(flags.TableName),
		paketpilot.WithAWSBaseEndpoint(flags.EndpointURL),
	}
	if flags.RetryMaxAttempts > 0 {
		optFns = append(optFns, paketpilot.WithAWSRetryMaxAttempts(flags.RetryMaxAttempts))
	}
	return optFns
}

func createTable(ctx context.Context, flags *Flags) error {
	cfg, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}
	client := dynamodb.NewFromConfig(cfg, func(options *dynamodb.Options) {
		if flags.EndpointURL != "" {
			options.BaseEndpoint = aws.String(flags.EndpointURL)
		}
		if flags.RetryMaxAttempts > 0 {
			options.RetryMaxAttempts = flags.RetryMaxAttempts
		}
	})
	return paketpilot.CreateTable(ctx, client, flags.TableName)
}

func createContentLog(flags *Flags) (*contentlog.Log, error) {
	path := flags.ContentLogPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve content log path: %v", err)
		}
		path = filepath.Join(home, constant.DefaultConfigDirName, constant.DefaultContentLogFile)
	}
	return contentlog.New(contentlog.NewFileStore(path), constant.DefaultContentLogKey), nil
}

func ParseInput(input string) (command string, params []string) {
	input = strings.TrimSpace(input)
	arr := strings.Fields(input)

	if len(arr) == 0 {
		return "", nil
	}

	command = strings.ToLower(arr[0])

	if len(arr) > 1 {
		params = make([]string, len(arr)-1)
		for i := 1; i < len(arr); i++ {
			params[i-1] = strings.TrimSpace(arr[i])
		}
	}
	return command, params
}

func Execute() {
	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	setDefaultFlags(root, flgs)
}
