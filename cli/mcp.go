package cli

import (
	"github.com/spf13/cobra"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/mcp"
	"github.com/zot/ui-shell/internal/server"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the module registry to AI assistants over MCP (stdio)",
		Args:  cobra.NoArgs,
	}
	flags := bindConfigFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromFlags(flags)
		if err != nil {
			return err
		}
		// stdout carries the protocol
		cfg.SetLogOutput(cmd.ErrOrStderr())

		srv := server.New(cfg)
		if err := srv.LoadModules(); err != nil {
			return err
		}
		if cfg.Modules.Watch {
			if err := srv.Watch(); err != nil {
				return err
			}
		}
		return mcp.NewServer(cfg, srv.Registry(), Version).ServeStdio()
	}
	return cmd
}
