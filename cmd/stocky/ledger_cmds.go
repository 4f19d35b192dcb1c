package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appledger "github.com/ministock/backend/internal/application/ledger"
)

//go:embed sample_seed.yaml
var sampleSeed []byte

func newMigrateLegacyCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-legacy",
		Short: "Convert single-item incomes/expenses to the multi-item format",
		Long: `Rewrites legacy single-item income and expense records as sales and
purchases. Runs only when the new-format blob does not exist yet, so running
it twice is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *root)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			report, err := a.normalizer.MigrateLegacy(a.sessionContext(ctx))
			if err != nil {
				return fmt.Errorf("legacy migration failed: %w", err)
			}

			out := cmd.OutOrStdout()
			notices := a.inbox.Drain()
			if len(notices) == 0 {
				fmt.Fprintln(out, "Nada que migrar.")
				return nil
			}
			for _, n := range notices {
				fmt.Fprintln(out, n)
			}
			a.log.Debug("legacy migration finished",
				zap.Int("sales", report.Sales),
				zap.Int("purchases", report.Purchases))
			return nil
		},
	}
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the ledger with demo data",
		Long: `Overwrites products, categories, clients, providers, sales and purchases
with the contents of a YAML seed file. Without --file a built-in sample shop
is loaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := sampleSeed
			if file != "" {
				var err error
				if data, err = os.ReadFile(file); err != nil {
					return fmt.Errorf("failed to read seed file: %w", err)
				}
			}
			seed, err := appledger.ParseSeed(data)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, *root)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			report, err := a.poster.Seed(a.sessionContext(ctx), seed)
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"✅ Datos de ejemplo cargados: %d productos, %d categorías, %d clientes, %d proveedores, %d compras, %d ventas\n",
				report.Products, report.Categories, report.Clients, report.Providers, report.Purchases, report.Sales)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file")
	return cmd
}
