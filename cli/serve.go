package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/loader"
	"github.com/zot/ui-shell/internal/modules"
	"github.com/zot/ui-shell/internal/registry"
	"github.com/zot/ui-shell/internal/server"
)

const shutdownTimeout = 5 * time.Second

// bindConfigFlags adds the configuration flags to cmd.
func bindConfigFlags(cmd *cobra.Command) *config.Flags {
	return config.RegisterFlags(cmd.Flags())
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the shell server (default)",
		Args:  cobra.NoArgs,
	}
	flags := bindConfigFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, flags)
	}
	return cmd
}

func runServe(cmd *cobra.Command, flags *config.Flags) error {
	cfg, err := config.FromFlags(flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	cfg.Log(0, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadSnapshot registers the configured modules into a fresh registry.
func loadSnapshot(cfg *config.Config) (*registry.Snapshot, error) {
	descs, err := modules.Load(cfg, loader.New(cfg))
	if err != nil {
		return nil, err
	}
	return registry.New(cfg.Server.Base).Register(descs)
}
