package watch

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/byecycle/pyscan"
)

type watchOptions struct {
	port       int
	searchPath []string
	onlyCycles bool
}

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{
		port: 4900,
	}

	cmd := &cobra.Command{
		Use:   "watch PROJECT",
		Short: "Watch a Python project and serve a live import graph",
		Long:  `Watch a Python project for file changes, rebuild the import graph, and serve a live-updating cycle visualization at localhost.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "P", opts.port, "HTTP server port")
	cmd.Flags().StringSliceVarP(&opts.searchPath, "search-path", "p", nil, "Directories to search when PROJECT is a package name (comma-separated)")
	cmd.Flags().BoolVar(&opts.onlyCycles, "only-cycles", false, "Only show edges that are part of a cycle")

	return cmd
}

func runWatch(cmd *cobra.Command, project string, opts *watchOptions) error {
	root, err := pyscan.ResolveProjectRoot(project, opts.searchPath)
	if err != nil {
		return err
	}

	b := newBroker()
	srv := newServer(b, opts.port)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", opts.port, err)
	}

	go srv.Serve(ln)

	dot, err := buildDOTGraph(root, opts)
	if err != nil {
		return fmt.Errorf("initial graph build failed: %w", err)
	}
	b.publish(dot)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", root)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d\n", opts.port)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	err = watchAndRebuild(ctx, root, opts, b)

	srv.Close()
	return err
}
