package app

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjy-dev/lcovsum/internal/config"
)

const configHeader = `# lcovsum configuration.
# Environment variables (LCOVSUM_LOG_LEVEL, LCOVSUM_THRESHOLDS_LOW, ...) and
# command line flags take precedence over this file.
`

// NewInitCommand creates the "init" subcommand writing to fs.
func NewInitCommand(fs afero.Fs) *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default lcovsum.yaml.",
		Long: `Write a configuration file holding the default settings.

Examples:
  # Create lcovsum.yaml in the current directory
  lcovsum init

  # Custom location, overwriting an existing file
  lcovsum init --output configs/lcovsum.yaml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				exists, err := afero.Exists(fs, output)
				if err != nil {
					return fmt.Errorf("failed to check %s: %w", output, err)
				}
				if exists {
					return fmt.Errorf("%s already exists. Use --force to overwrite", output)
				}
			}

			data, err := yaml.Marshal(config.Default())
			if err != nil {
				return fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err := afero.WriteFile(fs, output, append([]byte(configHeader), data...), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", config.ConfigName+".yaml", "Output path for the config file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}
