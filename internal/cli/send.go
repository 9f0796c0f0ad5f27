package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodelight/pkg/transport/udp"
)

// sendCommand creates the send command, the client side of serve.
func (c *CLI) sendCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "send <node>...",
		Short: "Select nodes in a running serve process",
		Long: `Send node identifiers to a running "nodelight serve" as UDP datagrams, one
datagram per node, in the order given.`,
		Example: `  nodelight send A
  nodelight send A B C --addr 127.0.0.1:6005`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				if cfg, err := c.loadConfig(); err == nil && cfg.Listen.Address != "" {
					addr = cfg.Listen.Address
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			logger := loggerFromContext(ctx)
			for _, node := range args {
				if err := udp.Send(ctx, addr, node); err != nil {
					return err
				}
				logger.Debug("sent", "node", node, "addr", addr)
			}
			printSuccess("Sent %d selection(s) to %s", len(args), addr)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", udp.DefaultAddress, "UDP address of the serve process")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "give up after this long")

	return cmd
}
