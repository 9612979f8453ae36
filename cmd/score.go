package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/model"
)

var (
	scoreCompany     string
	scoreName        string
	scoreEmail       string
	scoreWebsite     string
	scorePosition    string
	scoreIndustry    string
	scoreRegion      string
	scoreSize        string
	scoreDegree      int
	scoreSFID        string
	scoreNotionPage  string
	scoreRoles       []string
	scoreIndustries  []string
	scoreRegions     []string
	scoreSizes       []string
	scoreRosterPath  string
	scoreSignalsFile string
	scorePolicyPath  string
	scoreNoStore     bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Qualify and score a single lead",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(cmd, scoreNoStore)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		p, err := buildPipeline(st, scoreSignalsFile, scorePolicyPath)
		if err != nil {
			return err
		}

		lead := model.LeadProfile{
			ID:           scoreEmail,
			Name:         scoreName,
			Email:        scoreEmail,
			Company:      scoreCompany,
			Website:      scoreWebsite,
			Position:     scorePosition,
			Industry:     scoreIndustry,
			Region:       scoreRegion,
			CompanySize:  scoreSize,
			SalesforceID: scoreSFID,
			NotionPageID: scoreNotionPage,
		}
		if lead.ID == "" {
			lead.ID = strings.ToLower(strings.ReplaceAll(scoreCompany, " ", "-"))
		}
		if scoreDegree > 0 {
			lead.ConnectionDegree = &scoreDegree
		}

		prefs := model.UserPreferences{
			Roles:        scoreRoles,
			Industries:   scoreIndustries,
			Regions:      scoreRegions,
			CompanySizes: scoreSizes,
		}

		contacts, err := loadRoster(ctx, scoreRosterPath)
		if err != nil {
			return err
		}

		outcome := p.Run(ctx, lead, prefs, contacts)
		if outcome.Failed() {
			zap.L().Error("lead qualification failed",
				zap.String("lead_id", outcome.LeadID),
				zap.String("reason", outcome.FailureReason),
			)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcome); err != nil {
			return eris.Wrap(err, "encode outcome")
		}
		if outcome.Failed() {
			return eris.New(outcome.FailureReason)
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreCompany, "company", "", "lead company name (required)")
	scoreCmd.Flags().StringVar(&scoreName, "lead-name", "", "lead contact name")
	scoreCmd.Flags().StringVar(&scoreEmail, "email", "", "lead email address")
	scoreCmd.Flags().StringVar(&scoreWebsite, "website", "", "lead company website")
	scoreCmd.Flags().StringVar(&scorePosition, "position", "", "lead job title")
	scoreCmd.Flags().StringVar(&scoreIndustry, "industry", "", "lead industry")
	scoreCmd.Flags().StringVar(&scoreRegion, "region", "", "lead region")
	scoreCmd.Flags().StringVar(&scoreSize, "company-size", "", "lead company size bracket")
	scoreCmd.Flags().IntVar(&scoreDegree, "degree", 0, "connection degree (1 or 2; omit when unknown)")
	scoreCmd.Flags().StringVar(&scoreSFID, "sf-id", "", "Salesforce lead ID for writeback")
	scoreCmd.Flags().StringVar(&scoreNotionPage, "notion-page", "", "Notion page ID for writeback")
	scoreCmd.Flags().StringSliceVar(&scoreRoles, "roles", nil, "preferred roles (ICP)")
	scoreCmd.Flags().StringSliceVar(&scoreIndustries, "industries", nil, "preferred industries (ICP)")
	scoreCmd.Flags().StringSliceVar(&scoreRegions, "regions", nil, "preferred regions (ICP)")
	scoreCmd.Flags().StringSliceVar(&scoreSizes, "company-sizes", nil, "preferred company sizes (ICP)")
	scoreCmd.Flags().StringVar(&scoreRosterPath, "roster", "", "contact roster (file, http(s) or ftp URL; csv or xlsx)")
	scoreCmd.Flags().StringVar(&scoreSignalsFile, "signals-file", "", "pre-collected signals JSON for offline scoring")
	scoreCmd.Flags().StringVar(&scorePolicyPath, "policy", "", "scoring policy YAML (overrides config)")
	scoreCmd.Flags().BoolVar(&scoreNoStore, "no-store", false, "skip run persistence")
	_ = scoreCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(scoreCmd)
}
