package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qsurv"
	"github.com/theapemachine/qsurv/internal/store"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "qsurv",
		Short: "Syndrome-schedule survival benchmarks for small error-detecting codes",
		Long: `qsurv benchmarks how mid-circuit, deferred and control measurement
schedules survive depolarizing and leakage noise on the [[8,6,2]] and
[[6,4,2]] codes, using an exact mixed-state simulator.`,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newBenchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qsurv version %s\n", version)
		},
	}
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the noise sweep and print the survival table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			dbPath, _ := cmd.Flags().GetString("db")
			codeName, _ := cmd.Flags().GetString("code")
			shots, _ := cmd.Flags().GetInt("shots")

			cfg := qsurv.NewConfig()
			if cfgPath != "" {
				loaded, err := qsurv.LoadConfig(cfgPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if codeName != "" {
				cfg.Code = codeName
			}
			if shots > 0 {
				cfg.Shots = shots
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			code, err := cfg.CodeSpec()
			if err != nil {
				return err
			}

			driver := qsurv.NewDriver(qsurv.NewSimulator(cfg.Seed), code, cfg)
			result, err := driver.Sweep(context.Background(), cfg.Levels)
			if err != nil {
				return err
			}
			if err := result.WriteTable(os.Stdout); err != nil {
				return err
			}

			if dbPath != "" {
				db, err := store.Open(dbPath)
				if err != nil {
					return err
				}
				defer db.Close()
				runID, err := db.SaveSweep(cmd.Context(), cfg.Shots, cfg.PLeak, result)
				if err != nil {
					return err
				}
				fmt.Printf("saved run %d to %s\n", runID, dbPath)
			}
			return nil
		},
	}
	cmd.Flags().String("config", "", "YAML config file")
	cmd.Flags().String("db", "", "SQLite file to store results in")
	cmd.Flags().String("code", "", `code instance: "862" or "642"`)
	cmd.Flags().Int("shots", 0, "trials per sweep point (overrides config)")
	return cmd
}
