package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/viewport/internal/errors"
)

func errorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors [code]",
		Short: "List error codes or explain one",
		Long: `List every error code the viewport packages return, or print the
full explanation of one code.

Examples:
  viewport errors
  viewport errors E201`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				code := strings.ToUpper(args[0])
				t, ok := errors.GetTemplate(code)
				if !ok {
					return errors.New("E140").
						WithDetailf("unknown error code %q", args[0]).
						WithSuggestion("Run 'viewport errors' to list codes")
				}
				fmt.Fprintf(out, "%s %s (%s)\n\n", code, t.Message, t.Category)
				fmt.Fprintf(out, "  %s\n\n", t.Detail)
				fmt.Fprintf(out, "  See %s\n", errors.New(code).DocURL)
				return nil
			}
			for _, code := range errors.GetAllCodes() {
				t, _ := errors.GetTemplate(code)
				fmt.Fprintf(out, "%s  %-10s %s\n", code, t.Category, t.Message)
			}
			return nil
		},
	}
}
