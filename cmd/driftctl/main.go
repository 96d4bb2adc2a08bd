// driftctl is the operational CLI for the reconciliation engine: inspect
// wallet drift and repair it against a local database.
package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moneta/internal/cli"
	"moneta/internal/core"
	"moneta/internal/ledger"
	"moneta/internal/services"
	"moneta/internal/storage"
)

var dbPath string

func main() {
	cli.LoadEnvFile()

	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "driftctl",
		Short:         "Inspect and repair wallet balance drift",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/moneta.db", "path to the SQLite database")

	rootCmd.AddCommand(newDiagnoseCmd())
	rootCmd.AddCommand(newRepairCmd())
	return rootCmd
}

func openReconcileService() (*services.ReconcileService, func(), error) {
	if err := storage.RunMigrations(dbPath); err != nil {
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}
	return services.NewReconcileService(repo), func() { _ = repo.Close() }, nil
}

func newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Report stored vs. computed balance for every wallet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := openReconcileService()
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := svc.Diagnose(cmd.Context())
			if err != nil {
				return err
			}
			renderReport(report)
			return nil
		},
	}
}

func newRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Overwrite drifted stored balances with computed ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := openReconcileService()
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := svc.Repair(cmd.Context())
			if err != nil {
				return err
			}
			renderReport(report)

			repaired := len(report.OutOfSync())
			if repaired == 0 {
				pterm.Info.Println("Nothing to repair, all wallets in sync")
			} else {
				pterm.Success.Printf("Repaired %d wallet(s)\n", repaired)
			}
			return nil
		},
	}
}

func renderReport(report ledger.Report) {
	tableData := pterm.TableData{
		{"Wallet", "Stored", "Computed", "Difference", "Status"},
	}
	for _, w := range report.Wallets {
		status := "in sync"
		if !w.InSync {
			status = "DRIFT"
		}
		tableData = append(tableData, []string{
			w.WalletName,
			core.FormatCents(w.StoredCents),
			core.FormatCents(w.ComputedCents),
			core.FormatCents(w.DifferenceCents),
			status,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	pterm.Info.Printf("Total: %d wallets\n", len(report.Wallets))

	if len(report.Orphans) > 0 {
		orphanData := pterm.TableData{
			{"Unknown wallet id", "Transactions", "Net amount"},
		}
		for _, o := range report.Orphans {
			orphanData = append(orphanData, []string{
				o.WalletID,
				fmt.Sprintf("%d", o.Transactions),
				core.FormatCents(o.NetCents),
			})
		}
		pterm.Warning.Println("Transactions referencing unknown wallets:")
		_ = pterm.DefaultTable.WithHasHeader().WithData(orphanData).Render()
	}
}
