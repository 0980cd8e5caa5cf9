// Package rules exposes the keyword and boilerplate tables for tuning.
package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	domainRules "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/rules"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the risk and boilerplate rule tables",
	}
	cmd.AddCommand(newExportCommand())
	return cmd
}

func newExportCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the effective rule set as YAML",
		Long: `Print the effective rule set as YAML. With --rules the file is overlaid on the
built-in tables first, so the output shows exactly what the server would use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := domainRules.Load(file)
			if err != nil {
				return err
			}
			data, err := rs.Marshal()
			if err != nil {
				return fmt.Errorf("failed to marshal rules: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&file, "rules", "", "Rule set YAML file to overlay on the built-in tables")
	return cmd
}
