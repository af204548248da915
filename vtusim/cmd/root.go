// Package cmd provides the command-line interface of vtusim.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sarchlab/vtusim/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	cfg     = config.Default()
	envFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vtusim",
	Short: "vtusim simulates a voxel traversal unit cycle by cycle.",
	Long: `vtusim is a cycle-level reference model of a voxel traversal ` +
		`unit. It renders frames through traversal engines that share an ` +
		`L1, an L2 and an L3 store, and reports what the caches did.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env",
		"file with VTUSIM_* settings, ignored when missing")
	config.RegisterFlags(rootCmd.PersistentFlags())
}

// loadConfig resolves the configuration of the running command: defaults,
// then the .env file, then the environment, then the flags.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(envFile)
	if err != nil {
		return err
	}

	if err := c.ApplyFlags(cmd.Flags()); err != nil {
		return err
	}

	if err := c.Validate(); err != nil {
		return err
	}

	cfg = c

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
