package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvatanabe/paketpilot/internal/httpapi"
)

func (f CommandFactory) CreateServeCommand(flgs *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve shipments and saved contents over HTTP",
		Long:  `Serve shipments, QR codes and the local content log over a JSON HTTP API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stdout, "[paketpilot] ", log.LstdFlags|log.Lshortfile)

			ctx := context.Background()
			client, contents, registrar, _, err := f.createAll(ctx, flgs)
			if err != nil {
				return err
			}

			h := httpapi.NewHandler(client, registrar, contents, flgs.QRCodeSize, logger)
			srv := &http.Server{
				Addr:              flgs.Addr,
				Handler:           httpapi.NewRouter(h),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       5 * time.Second,
				WriteTimeout:      10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Printf("listening on %s", flgs.Addr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
				close(errCh)
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(stop)

			select {
			case err := <-errCh:
				return err
			case <-stop:
			}
			logger.Println("shutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func init() {
	c := defaultCommandFactory.CreateServeCommand(flgs)
	setDefaultFlags(c, flgs)
	c.Flags().StringVar(&flgs.Addr, flagMap.Addr.Name, flagMap.Addr.Value, flagMap.Addr.Usage)
	root.AddCommand(c)
}
