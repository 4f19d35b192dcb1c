// Command stocky is the terminal front end of the Stocky inventory
// assistant.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath     string
	storeDriver    string
	verbose        bool
	memoryFallback bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "stocky",
		Short: "Stocky - asistente de inventario",
		Long: `Stocky answers questions about a small shop's inventory, sales and
purchases in Spanish, with text charts in the terminal.

Run without arguments to start the interactive chat.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, *opts, chatOptions{delay: true})
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config.toml")
	flags.StringVar(&opts.storeDriver, "store", "", "override store.driver (memory, sqlite, postgres, redis, s3)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&opts.memoryFallback, "memory-fallback", false, "use an in-memory store when the configured one is unreachable")

	root.AddCommand(
		newChatCmd(opts),
		newAskCmd(opts),
		newMigrateLegacyCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
