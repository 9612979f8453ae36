package main

import (
	"context"
	"os"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/model"
	"github.com/sells-group/leadqual/internal/network"
	"github.com/sells-group/leadqual/internal/pipeline"
	"github.com/sells-group/leadqual/internal/producer"
	"github.com/sells-group/leadqual/internal/roster"
	"github.com/sells-group/leadqual/internal/scoring"
	"github.com/sells-group/leadqual/internal/signal"
	"github.com/sells-group/leadqual/internal/store"
	anthropicpkg "github.com/sells-group/leadqual/pkg/anthropic"
	notionpkg "github.com/sells-group/leadqual/pkg/notion"
	sfpkg "github.com/sells-group/leadqual/pkg/salesforce"
	"github.com/sells-group/leadqual/pkg/serper"
)

// openStore initializes and migrates the configured store, or returns nil
// when persistence is disabled.
func openStore(cmd *cobra.Command, noStore bool) (store.Store, error) {
	if noStore {
		return nil, nil
	}
	ctx := cmd.Context()
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// loadRoster loads the contact roster when a source is given.
func loadRoster(ctx context.Context, source string) ([]model.Contact, error) {
	if source == "" {
		return nil, nil
	}
	return roster.NewLoader().Load(ctx, source)
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "leadqual.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (LEADQUAL_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	opts := []sfpkg.ClientOption{}
	if cfg.Salesforce.RPS > 0 {
		opts = append(opts, sfpkg.WithRateLimit(cfg.Salesforce.RPS))
	}
	return sfpkg.NewClient(sf, opts...), nil
}

// buildDetector chooses the signal producer: a local file when signalsFile is
// set (offline runs), the model when an Anthropic key is configured, web
// search otherwise.
func buildDetector(signalsFile string) (producer.Detector, error) {
	if signalsFile != "" {
		return producer.NewFileDetector(signalsFile)
	}
	if cfg.Anthropic.Key != "" {
		return producer.NewClaudeDetector(
			anthropicpkg.NewClient(cfg.Anthropic.Key),
			cfg.Anthropic.Model,
			cfg.Anthropic.MaxTokens,
		), nil
	}
	if cfg.Serper.Key != "" {
		client := serper.NewClient(cfg.Serper.Key, serper.WithRateLimit(cfg.Serper.RPS, 1))
		return producer.NewSearchDetector(client, cfg.Serper.MaxResults), nil
	}
	return nil, eris.New("no signal producer configured: set a signals file, an Anthropic key, or a Serper key")
}

// buildPipeline wires the full per-lead pipeline from configuration. The
// store may be nil for score-only runs. Sinks are attached only for leads
// systems that are configured; each missing credential just drops that sink.
func buildPipeline(st store.Store, signalsFile, policyPath string) (*pipeline.Pipeline, error) {
	policy := cfg.Scoring
	if policyPath != "" {
		loaded, err := scoring.LoadPolicy(policyPath)
		if err != nil {
			return nil, err
		}
		policy = loaded
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	detector, err := buildDetector(signalsFile)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{}
	if st != nil {
		opts = append(opts, pipeline.WithStore(st))
	}

	// Online runs get website enrichment through search.
	if signalsFile == "" && cfg.Serper.Key != "" {
		client := serper.NewClient(cfg.Serper.Key, serper.WithRateLimit(cfg.Serper.RPS, 1))
		opts = append(opts, pipeline.WithEnricher(producer.NewSearchEnricher(client)))
	}

	if cfg.Salesforce.ClientID != "" {
		sfClient, err := initSalesforce()
		if err != nil {
			zap.L().Warn("salesforce init failed, skipping sink", zap.Error(err))
		} else {
			opts = append(opts, pipeline.WithSinks(pipeline.NewSalesforceSink(sfClient)))
		}
	}
	if cfg.Notion.Token != "" {
		opts = append(opts, pipeline.WithSinks(
			pipeline.NewNotionSink(notionpkg.NewClient(cfg.Notion.Token))))
	}

	return pipeline.New(
		detector,
		signal.NewFilter(signal.NewValidator(cfg.Validation)),
		network.NewMatcher(),
		scoring.NewEngine(policy),
		opts...,
	), nil
}
