// Package pipeline orchestrates per-lead qualification: enrich, detect,
// validate, match, score, persist. Every processed lead yields exactly one
// LeadOutcome.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadqual/internal/model"
	"github.com/sells-group/leadqual/internal/network"
	"github.com/sells-group/leadqual/internal/producer"
	"github.com/sells-group/leadqual/internal/scoring"
	"github.com/sells-group/leadqual/internal/signal"
	"github.com/sells-group/leadqual/internal/store"
)

// Pipeline runs the qualification stages for one lead at a time. Safe for
// concurrent use across leads.
type Pipeline struct {
	store    store.Store // nil disables persistence
	enricher producer.Enricher
	detector producer.Detector
	filter   *signal.Filter
	matcher  *network.Matcher
	engine   *scoring.Engine
	sinks    []Sink
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithStore enables run/stage/result persistence.
func WithStore(st store.Store) Option {
	return func(p *Pipeline) { p.store = st }
}

// WithEnricher enables profile enrichment before detection.
func WithEnricher(e producer.Enricher) Option {
	return func(p *Pipeline) { p.enricher = e }
}

// WithSinks adds external publication targets for computed scores.
func WithSinks(sinks ...Sink) Option {
	return func(p *Pipeline) { p.sinks = append(p.sinks, sinks...) }
}

// New creates a Pipeline. The detector, filter, matcher, and engine are
// required; persistence, enrichment, and sinks are optional.
func New(detector producer.Detector, filter *signal.Filter, matcher *network.Matcher, engine *scoring.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{
		detector: detector,
		filter:   filter,
		matcher:  matcher,
		engine:   engine,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run qualifies a single lead. The returned outcome is never nil: it carries
// either a complete breakdown or an explicit failure reason. Sink and store
// failures are recorded on the outcome without discarding the breakdown.
func (p *Pipeline) Run(ctx context.Context, lead model.LeadProfile, prefs model.UserPreferences, roster []model.Contact) *model.LeadOutcome {
	log := zap.L().With(zap.String("lead_id", lead.ID), zap.String("company", lead.Company))
	log.Info("pipeline: starting qualification")

	outcome := &model.LeadOutcome{LeadID: lead.ID}

	if lead.Company == "" {
		err := &MissingInputError{Field: "company"}
		outcome.FailureReason = err.Error()
		log.Error("pipeline: rejected", zap.Error(err))
		return outcome
	}

	// Create the run record. Persistence being down never blocks scoring.
	var runID string
	if p.store != nil {
		run, err := p.store.CreateRun(ctx, lead)
		if err != nil {
			log.Warn("pipeline: create run failed", zap.Error(err))
			outcome.PersistenceErrors = append(outcome.PersistenceErrors, err.Error())
		} else {
			runID = run.ID
			outcome.RunID = runID
		}
	}

	setStatus := func(status model.RunStatus) {
		if p.store == nil || runID == "" {
			return
		}
		if err := p.store.UpdateRunStatus(ctx, runID, status); err != nil {
			log.Warn("pipeline: update status failed", zap.Error(err))
		}
	}

	var stagesMu sync.Mutex
	trackStage := func(name string, fn func() (map[string]any, error)) error {
		var stageID string
		if p.store != nil && runID != "" {
			id, err := p.store.CreateStage(ctx, runID, name)
			if err != nil {
				log.Warn("pipeline: create stage failed", zap.String("stage", name), zap.Error(err))
			} else {
				stageID = id
			}
		}

		start := time.Now()
		metadata, err := fn()
		duration := time.Since(start).Milliseconds()

		result := model.StageResult{
			Name:     name,
			Status:   model.StageStatusComplete,
			Duration: duration,
			Metadata: metadata,
		}
		if err != nil {
			result.Status = model.StageStatusFailed
			result.Error = err.Error()
			log.Warn("pipeline: stage failed",
				zap.String("stage", name),
				zap.Int64("duration_ms", duration),
				zap.Error(err),
			)
		} else {
			log.Debug("pipeline: stage complete",
				zap.String("stage", name),
				zap.Int64("duration_ms", duration),
			)
		}

		if stageID != "" {
			if cErr := p.store.CompleteStage(ctx, stageID, &result); cErr != nil {
				log.Warn("pipeline: complete stage failed", zap.Error(cErr))
			}
		}
		stagesMu.Lock()
		outcome.Stages = append(outcome.Stages, result)
		stagesMu.Unlock()
		return err
	}

	// ===== Enrich =====
	setStatus(model.RunStatusEnriching)
	if p.enricher != nil {
		_ = trackStage("enrich", func() (map[string]any, error) {
			enriched, err := p.enricher.Enrich(ctx, lead)
			if err != nil {
				return nil, &UpstreamError{Stage: "enrich", Err: err}
			}
			lead = enriched
			return map[string]any{"website": lead.Website}, nil
		})
	}

	// ===== Detect (both polarities in parallel) =====
	setStatus(model.RunStatusDetecting)

	var positive, negative []model.CandidateSignal
	// Only malformed output propagates through the group; degraded upstreams
	// must not cancel the sibling detection.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := trackStage("detect_positive", func() (map[string]any, error) {
			sigs, err := p.detect(gCtx, lead, model.PolarityPositive)
			if err != nil {
				return nil, err
			}
			positive = sigs
			return map[string]any{"candidates": len(sigs)}, nil
		})
		if IsMalformedOutput(err) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := trackStage("detect_negative", func() (map[string]any, error) {
			sigs, err := p.detect(gCtx, lead, model.PolarityNegative)
			if err != nil {
				return nil, err
			}
			negative = sigs
			return map[string]any{"candidates": len(sigs)}, nil
		})
		if IsMalformedOutput(err) {
			return err
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		// Malformed producer output is terminal: there is nothing to score.
		outcome.FailureReason = err.Error()
		p.finishRun(ctx, runID, outcome, log)
		return outcome
	}

	// ===== Validate =====
	setStatus(model.RunStatusValidating)
	var signals model.ValidatedSignalSet
	_ = trackStage("validate", func() (map[string]any, error) {
		signals = p.filter.ValidateBatch(positive, negative)
		return map[string]any{
			"survivors":  signals.Total(),
			"candidates": len(positive) + len(negative),
			"confidence": signals.AggregateConfidence,
		}, nil
	})
	outcome.Signals = &signals

	// ===== Domain match =====
	var match network.MatchResult
	_ = trackStage("domain_match", func() (map[string]any, error) {
		match = p.matcher.Match(lead.Website, lead.Email, roster)
		return map[string]any{
			"lead_domain": match.LeadDomain,
			"matches":     len(match.Matches),
		}, nil
	})

	// ===== Score =====
	setStatus(model.RunStatusScoring)
	var breakdown model.ScoreBreakdown
	_ = trackStage("score", func() (map[string]any, error) {
		breakdown = p.engine.Score(scoring.Inputs{
			Lead:        lead,
			Prefs:       prefs,
			Signals:     signals,
			DomainMatch: match,
		})
		return map[string]any{
			"final_score": breakdown.FinalScore,
			"priority":    string(breakdown.Priority),
		}, nil
	})
	outcome.Breakdown = &breakdown

	// ===== Persist =====
	setStatus(model.RunStatusPersisting)
	_ = trackStage("persist", func() (map[string]any, error) {
		p.persist(ctx, runID, lead, outcome, log)
		return map[string]any{"errors": len(outcome.PersistenceErrors)}, nil
	})

	p.finishRun(ctx, runID, outcome, log)
	log.Info("pipeline: qualification complete",
		zap.Float64("final_score", breakdown.FinalScore),
		zap.String("priority", string(breakdown.Priority)),
	)
	return outcome
}

// detect calls the producer and classifies its failure. Malformed output
// propagates; any other producer error degrades to zero candidates.
func (p *Pipeline) detect(ctx context.Context, lead model.LeadProfile, polarity model.Polarity) ([]model.CandidateSignal, error) {
	sigs, err := p.detector.Detect(ctx, lead, polarity)
	if err == nil {
		return sigs, nil
	}
	if IsMalformedOutput(err) {
		return nil, err
	}
	zap.L().Warn("pipeline: detection degraded to empty",
		zap.String("polarity", string(polarity)),
		zap.Error(err),
	)
	return nil, &UpstreamError{Stage: "detect_" + string(polarity), Err: err}
}

// persist saves results to the store and publishes to sinks. Each failure is
// recorded individually; the breakdown is already on the outcome.
func (p *Pipeline) persist(ctx context.Context, runID string, lead model.LeadProfile, outcome *model.LeadOutcome, log *zap.Logger) {
	record := func(label string, err error) {
		if err == nil {
			return
		}
		log.Warn("pipeline: persistence failed", zap.String("target", label), zap.Error(err))
		outcome.PersistenceErrors = append(outcome.PersistenceErrors, fmt.Sprintf("%s: %v", label, err))
	}

	if p.store != nil && runID != "" {
		record("store.score", p.store.SaveScore(ctx, runID, lead, outcome.Breakdown))
		record("store.signals", p.store.SaveSignals(ctx, runID, outcome.Signals))
	}
	for _, sink := range p.sinks {
		record(sink.Name(), sink.Publish(ctx, lead, outcome.Breakdown))
	}
}

func (p *Pipeline) finishRun(ctx context.Context, runID string, outcome *model.LeadOutcome, log *zap.Logger) {
	if p.store == nil || runID == "" {
		return
	}
	if err := p.store.CompleteRun(ctx, runID, outcome); err != nil {
		log.Warn("pipeline: complete run failed", zap.Error(err))
		outcome.PersistenceErrors = append(outcome.PersistenceErrors, err.Error())
	}
}
