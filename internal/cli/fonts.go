package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"subburn/internal/config"
	"subburn/internal/paths"
)

func newFontsCmd() *cobra.Command {
	var resolve string

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List the font allow-list, or resolve a CSS family list against it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pp, err := paths.Resolve(projectDir)
			if err != nil {
				return err
			}
			cfg, err := config.Load(pp.ConfigFile)
			if err != nil {
				return err
			}
			fonts := cfg.FontList()

			if resolve != "" {
				name, substituted := fonts.Resolve(resolve)
				if outputJSON {
					return writeJSON(cmd, "fonts", struct {
						Requested   string `json:"requested"`
						Font        string `json:"font"`
						Substituted bool   `json:"substituted"`
					}{resolve, name, substituted})
				}
				if substituted {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (substituted; none of %q are allowed)\n", name, resolve)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			names := fonts.Names()
			if outputJSON {
				return writeJSON(cmd, "fonts", struct {
					Fonts []string `json:"fonts"`
				}{names})
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resolve, "resolve", "", `Resolve a family list such as '"Montserrat", Arial, sans-serif'`)
	return cmd
}
