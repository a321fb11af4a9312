package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/catalog"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/guide"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/server"
)

func newServeCommand() *cobra.Command {
	var addr string
	var sanitize bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog and guides over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}

			renderer := guide.NewGoldmarkRenderer(guide.RenderOptions{Sanitize: sanitize})
			srv := server.New(opts, catalog.NewManager(opts), localLoader(opts, guide.NewParser(renderer)))

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return WrapCLIError(ExitCodeFilesystem, fmt.Errorf("failed to listen on %s: %w", addr, err))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := respond(cmd, opts, true, fmt.Sprintf("Serving guides on http://%s", ln.Addr()), map[string]interface{}{
				"addr": ln.Addr().String(),
			}); err != nil {
				return err
			}
			if err := srv.ServeListener(ctx, ln); err != nil {
				return WrapCLIError(ExitCodeUnknown, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "Listen address")
	cmd.Flags().BoolVar(&sanitize, "sanitize", true, "Strip unsafe HTML from rendered prose")
	return cmd
}
