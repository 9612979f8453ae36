package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadqual/internal/model"
	"github.com/sells-group/leadqual/internal/store"
)

var (
	runsStatus  string
	runsCompany string
	runsLimit   int
	runsOffset  int
	runsJSON    bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored qualification runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(cmd, false)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status:  model.RunStatus(runsStatus),
			Company: runsCompany,
			Limit:   runsLimit,
			Offset:  runsOffset,
		})
		if err != nil {
			return err
		}

		if runsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(runs), "encode runs")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN ID\tCOMPANY\tSTATUS\tSCORE\tPRIORITY\tCREATED")
		for _, r := range runs {
			score, priority := "-", "-"
			if r.Outcome != nil && r.Outcome.Breakdown != nil {
				score = fmt.Sprintf("%.0f", r.Outcome.Breakdown.FinalScore)
				priority = string(r.Outcome.Breakdown.Priority)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Lead.Company, r.Status, score, priority,
				r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "filter by run status")
	runsCmd.Flags().StringVar(&runsCompany, "company", "", "filter by lead company")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 50, "maximum runs to list")
	runsCmd.Flags().IntVar(&runsOffset, "offset", 0, "offset into the result set")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "output JSON instead of a table")
	rootCmd.AddCommand(runsCmd)
}
