package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cyrange/cyrange/internal/export"
	"github.com/cyrange/cyrange/internal/generator"
	"github.com/cyrange/cyrange/internal/scenario"
	"github.com/cyrange/cyrange/internal/topology"
)

// planOptions carries the flags of the plan subcommand.
type planOptions struct {
	scenarioPath string
	editionPath  string
	platform     string
	outputDir    string
	format       string
	xlsxPath     string
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compile a scenario into backend variable files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.scenarioPath, "scenario", "s", "", "path to the scenario YAML file")
	cmd.Flags().StringVarP(&opts.editionPath, "edition", "e", "", "path to the lab edition YAML file")
	cmd.Flags().StringVarP(&opts.platform, "platform", "p", "", "backend platform (aws, libvirt, docker); defaults to the configured one")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", ".", "directory the variable files are written to")
	cmd.Flags().StringVar(&opts.format, "format", "yaml", "variable file format (yaml or json)")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "also write an XLSX address plan to this path")
	_ = cmd.MarkFlagRequired("scenario")
	_ = cmd.MarkFlagRequired("edition")

	return cmd
}

func runPlan(cmd *cobra.Command, root *rootOptions, opts *planOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	platform := opts.platform
	if platform == "" {
		platform = cfg.Platform
	}
	gen, err := generator.ForPlatform(platform)
	if err != nil {
		return err
	}
	if opts.format != "yaml" && opts.format != "json" {
		return fmt.Errorf("unknown format %q, must be yaml or json", opts.format)
	}

	scn, err := scenario.Load(opts.scenarioPath)
	if err != nil {
		return err
	}
	edition, err := scenario.LoadEdition(opts.editionPath)
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

	vars, err := gen.GenerateResources(scn, plan)
	if err != nil {
		return err
	}
	// provisioning tuning from the configuration travels with the
	// variable document
	vars["ansible_forks"] = cfg.AnsibleForks

	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outPath := filepath.Join(opts.outputDir, fmt.Sprintf("%s_vars.%s", platform, opts.format))
	if err := writeVariables(outPath, vars, opts.format); err != nil {
		return err
	}
	cmd.Printf("wrote %s: %d subnetworks, %d machines\n", outPath, len(plan.Subnetworks), len(plan.Machines))

	if opts.xlsxPath != "" {
		if err := export.WriteXLSX(plan, opts.xlsxPath); err != nil {
			return err
		}
		cmd.Printf("wrote address plan %s\n", opts.xlsxPath)
	}
	return nil
}

// writeVariables serializes a variable document to disk.
func writeVariables(path string, vars generator.Variables, format string) error {
	var data []byte
	var err error
	switch format {
	case "json":
		data, err = json.MarshalIndent(vars, "", "  ")
	default:
		data, err = yaml.Marshal(vars)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize variables: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write variables: %w", err)
	}
	return nil
}
