package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/viewport/internal/errors"
	"github.com/vango-dev/viewport/pkg/scenario"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Replay a scenario and report each step",
		Long: `Replay a scenario against a fresh host view. The run stops at the
first failing step and exits non-zero.

Examples:
  viewport run list.yaml
  viewport run list.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, flags, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func runScenario(cmd *cobra.Command, flags *globalFlags, path string, asJSON bool) error {
	out := cmd.OutOrStdout()

	e, err := setup(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close(context.Background())

	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	res, runErr := scenario.Run(cmd.Context(), sc, e.hostOpts...)
	if res == nil {
		return runErr
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return errors.New("E140").Wrap(err)
		}
		return runErr
	}

	fmt.Fprintf(out, "%s\n\n", res.Scenario)
	for _, s := range res.Steps {
		if s.Err != "" {
			errorMsg(out, "%2d %s", s.Index, s.Step)
			continue
		}
		success(out, "%2d %s", s.Index, s.Step)
	}
	fmt.Fprintln(out)
	info(out, "html: %s", res.Final.HTML)
	for _, p := range res.Final.Ports {
		info(out, "%s: %d views, hydrated=%t", p.Name, p.Len, p.Hydrated)
	}
	return runErr
}
