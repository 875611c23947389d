package main

import (
	"github.com/spf13/cobra"

	"github.com/cyrange/cyrange/internal/scenario"
	"github.com/cyrange/cyrange/internal/selector"
	"github.com/cyrange/cyrange/internal/topology"
)

// machinesOptions carries the flags of the machines subcommand. The
// -i/-c/-g trio is the machine specification surface shared with the
// lifecycle commands.
type machinesOptions struct {
	scenarioPath string
	editionPath  string
	instances    string
	copies       string
	guests       string
}

func newMachinesCmd(root *rootOptions) *cobra.Command {
	opts := &machinesOptions{}

	cmd := &cobra.Command{
		Use:   "machines",
		Short: "List the compiled machines matching a machine specification",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMachines(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.scenarioPath, "scenario", "s", "", "path to the scenario YAML file")
	cmd.Flags().StringVarP(&opts.editionPath, "edition", "e", "", "path to the lab edition YAML file")
	cmd.Flags().StringVarP(&opts.instances, "instances", "i", "", "instance numbers, e.g. \"1,3-5\"")
	cmd.Flags().StringVarP(&opts.copies, "copies", "c", "", "copy numbers, e.g. \"2,4-6,8\"")
	cmd.Flags().StringVarP(&opts.guests, "guests", "g", "", "comma-separated guest names")
	_ = cmd.MarkFlagRequired("scenario")
	_ = cmd.MarkFlagRequired("edition")

	return cmd
}

func runMachines(cmd *cobra.Command, root *rootOptions, opts *machinesOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	scn, err := scenario.Load(opts.scenarioPath)
	if err != nil {
		return err
	}
	edition, err := scenario.LoadEdition(opts.editionPath)
	if err != nil {
		return err
	}
	sel, err := selector.Parse(opts.instances, opts.copies, opts.guests)
	if err != nil {
		return err
	}

	blocks, err := topology.ParseBlocks(cfg.NetworkCIDRBlock, cfg.ServicesNetworkCIDRBlock, cfg.InternetNetworkCIDRBlock)
	if err != nil {
		return err
	}
	plan, err := topology.Compile(scn, edition, blocks)
	if err != nil {
		return err
	}

	for _, m := range sel.Filter(plan.Machines) {
		if len(m.Interfaces) == 0 {
			cmd.Printf("%s\n", m.Name)
			continue
		}
		for _, iface := range m.Interfaces {
			cmd.Printf("%s\t%s\t%s\n", m.Name, iface.Network, iface.IPAddress)
		}
	}
	return nil
}
