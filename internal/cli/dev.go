package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/csrent/csrent-cli/internal/mock"
	"github.com/csrent/csrent-cli/internal/state"
)

func newDevCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Local development helpers",
	}
	cmd.AddCommand(newDevServeCmd(app))
	return cmd
}

func newDevServeCmd(app *App) *cobra.Command {
	var addr string
	var statePath string
	var memory bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local mock of the spaces and users API",
		Long: "Run a local mock of the spaces and users API.\n\n" +
			"The mock is seeded with demo data and persists changes to --state " +
			"unless --memory is set. Point the client at it with " +
			"--api-url http://<addr>.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := statePath
			if memory {
				path = ""
			}
			store, err := mock.Open(path)
			if err != nil {
				return writeFailure(cmd, app, "state_unreadable", err, "Pass --memory to start from demo data.", nil)
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return writeFailure(cmd, app, "listen_failed", err, "", nil)
			}
			url := "http://" + ln.Addr().String()
			app.Logger.Info("mock api listening", slog.String("url", url), slog.String("state", path))
			if err := writeDone(cmd, app, "Mock API listening on "+url, map[string]any{"url": url, "state": path}); err != nil {
				_ = ln.Close()
				return err
			}
			return serve(cmd.Context(), ln, mock.NewRouter(store, app.Logger))
		},
	}

	defaultState, _ := state.DefaultPath()
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().StringVar(&statePath, "state", envOr(envPrefix+"_MOCK_STATE", defaultState), "Path to mock state JSON")
	cmd.Flags().BoolVar(&memory, "memory", false, "Keep state in memory only")
	return cmd
}

// serve runs h on ln until ctx is cancelled.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
