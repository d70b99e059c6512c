package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect trendscout configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  `Display the configuration after merging defaults, config file, environment and flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}
			if s.Trends.APIKey != "" {
				s.Trends.APIKey = "********"
			}

			if file := a.v.ConfigFileUsed(); file != "" {
				fmt.Fprintf(a.errOut, "Configuration file: %s\n\n", file)
			} else {
				fmt.Fprintf(a.errOut, "No configuration file found (using defaults)\n\n")
			}

			data, err := yaml.Marshal(s)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = a.out.Write(data)
			return err
		},
	})
	return cmd
}
