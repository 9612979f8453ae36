package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/model"
)

var (
	batchLeadsFile   string
	batchPrefsFile   string
	batchRosterPath  string
	batchSignalsFile string
	batchPolicyPath  string
	batchNoStore     bool
	batchOutputPath  string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Qualify a batch of leads from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		leads, err := readLeadsFile(batchLeadsFile)
		if err != nil {
			return err
		}
		if len(leads) == 0 {
			return eris.New("no leads in input file")
		}

		var prefs model.UserPreferences
		if batchPrefsFile != "" {
			data, err := os.ReadFile(batchPrefsFile)
			if err != nil {
				return eris.Wrap(err, "read preferences file")
			}
			if err := json.Unmarshal(data, &prefs); err != nil {
				return eris.Wrap(err, "parse preferences file")
			}
		}

		st, err := openStore(cmd, batchNoStore)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		p, err := buildPipeline(st, batchSignalsFile, batchPolicyPath)
		if err != nil {
			return err
		}

		contacts, err := loadRoster(ctx, batchRosterPath)
		if err != nil {
			return err
		}

		zap.L().Info("batch starting",
			zap.Int("leads", len(leads)),
			zap.Int("roster_contacts", len(contacts)),
			zap.Int("max_concurrent", cfg.Batch.MaxConcurrentLeads),
		)

		outcomes := p.RunBatch(ctx, leads, prefs, contacts, cfg.Batch.MaxConcurrentLeads)

		out := os.Stdout
		if batchOutputPath != "" {
			f, err := os.Create(batchOutputPath)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(outcomes), "encode outcomes")
	},
}

func readLeadsFile(path string) ([]model.LeadProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read leads file")
	}
	var leads []model.LeadProfile
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, eris.Wrap(err, "parse leads file")
	}
	return leads, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchLeadsFile, "file", "", "JSON file with an array of leads (required)")
	batchCmd.Flags().StringVar(&batchPrefsFile, "prefs", "", "JSON file with ICP preferences")
	batchCmd.Flags().StringVar(&batchRosterPath, "roster", "", "contact roster (file, http(s) or ftp URL; csv or xlsx)")
	batchCmd.Flags().StringVar(&batchSignalsFile, "signals-file", "", "pre-collected signals JSON for offline scoring")
	batchCmd.Flags().StringVar(&batchPolicyPath, "policy", "", "scoring policy YAML (overrides config)")
	batchCmd.Flags().BoolVar(&batchNoStore, "no-store", false, "skip run persistence")
	batchCmd.Flags().StringVar(&batchOutputPath, "output", "", "write outcomes to file instead of stdout")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
