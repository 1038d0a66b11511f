// Package cmd provides the CLI commands for landed-cost.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"landed-cost/internal/config"
	"landed-cost/internal/logging"
)

// Version is set at build time.
var Version = "0.1.0"

// rootOptions are the global flags and the configuration they resolve to.
type rootOptions struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:   "landed-cost",
		Short: "Estimate the landed cost of importing goods from China to the USA",
		Long: `landed-cost estimates what a container load of goods costs once it reaches
a US warehouse, and what Amazon FBA and Walmart WFS charge to sell it.

It fits the order into a shipping container, adds freight, insurance,
customs fees and tariffs, and compares the landed unit cost with a
selling price.

Examples:
  landed-cost order add --name "Bluetooth Speaker" --volume 0.5 --weight 2 --qty 500 --cost 10 --category electronics
  landed-cost calculate
  landed-cost calculate --container 20ft --price 34.99 --format json
  landed-cost calculate --mode order --xlsx quote.xlsx`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (JSON)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newCalculateCmd(opts))
	rootCmd.AddCommand(newRatesCmd(opts))
	rootCmd.AddCommand(newOrderCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	return newRootCmd().Execute()
}

func (o *rootOptions) init() error {
	if o.cfgFile != "" {
		cfg, err := config.Load(o.cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		o.cfg = cfg
	}
	config.Set(o.cfg)

	// Initialize logging
	if o.verbose {
		o.cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(o.cfg.Logging); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	return nil
}

// newVersionCmd prints version information
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "landed-cost version %s\n", Version)
		},
	}
}
