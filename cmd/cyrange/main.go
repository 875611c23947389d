// Command cyrange compiles training lab scenarios into concrete
// addressing, naming and backend variable files, and serves the
// recorded labs over HTTP.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/cyrange/cyrange/internal/config"
	_ "modernc.org/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("cyrange: %v", err)
	}
}

// rootOptions carries the flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

// loadConfig builds the immutable configuration value every command
// works against.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.configPath)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cyrange",
		Short: "Compile and manage multi-tenant training lab networks",
		Long: `cyrange compiles a declarative scenario (guest templates plus a
network topology) into collision-free addressing, canonical machine
names and DNS records for the aws, libvirt and docker backends.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")

	cmd.AddCommand(newPlanCmd(opts))
	cmd.AddCommand(newMachinesCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	cmd.SetOut(os.Stdout)
	return cmd
}
