package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadqual/internal/scoring"
)

var policyPath string

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the effective scoring policy as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		policy := cfg.Scoring
		if policyPath != "" {
			loaded, err := scoring.LoadPolicy(policyPath)
			if err != nil {
				return err
			}
			policy = loaded
		}
		if err := policy.Validate(); err != nil {
			return err
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(policy); err != nil {
			return eris.Wrap(err, "encode policy")
		}
		return eris.Wrap(enc.Close(), "flush policy")
	},
}

func init() {
	policyCmd.Flags().StringVar(&policyPath, "policy", "", "scoring policy YAML to resolve instead of config")
	rootCmd.AddCommand(policyCmd)
}
