package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/Conceptual-Machines/stylist-api/internal/prompt"
)

func newPromptCmd() *cobra.Command {
	var (
		params   models.StylingParameters
		defaults bool
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the structured prompt for the given styling fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if defaults {
				params = models.DefaultStylingParameters()
			}
			fmt.Fprintln(cmd.OutOrStdout(), prompt.Synthesize(params))
			return nil
		},
	}

	bindStylingFlags(cmd, &params)
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Use the web form's default values")

	return cmd
}
