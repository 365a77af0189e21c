// Package broker runs analyses on request: it loads the page, skips unchanged
// content, runs the optimiser, persists complete results and announces them.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/MikeSquared-Agency/Optimiser/internal/checks"
	"github.com/MikeSquared-Agency/Optimiser/internal/config"
	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/hermes"
	"github.com/MikeSquared-Agency/Optimiser/internal/metrics"
	"github.com/MikeSquared-Agency/Optimiser/internal/scoring"
	"github.com/MikeSquared-Agency/Optimiser/internal/store"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
	"github.com/MikeSquared-Agency/Optimiser/internal/weights"
)

// Request asks for one subject to be analyzed. Empty allow-lists run
// everything; Force bypasses the unchanged-content skip.
type Request struct {
	SubjectID  int64    `json:"subject_id"`
	Contexts   []string `json:"contexts,omitempty"`
	Operations []string `json:"operations,omitempty"`
	Force      bool     `json:"force,omitempty"`
}

func (r Request) params() scoring.Params {
	return scoring.Params{Contexts: r.Contexts, Operations: r.Operations}
}

// key dedupes concurrent identical requests.
func (r Request) key(base string) string {
	if !r.params().Partial() && !r.Force {
		return base
	}
	ctxs := slices.Sorted(slices.Values(r.Contexts))
	ops := slices.Sorted(slices.Values(r.Operations))
	return fmt.Sprintf("%s|c=%s|o=%s|f=%t", base, strings.Join(ctxs, ","), strings.Join(ops, ","), r.Force)
}

// Result is the outcome of one analysis. Breakdown is the JSON of a
// scoring.Breakdown, freshly built or loaded from the store when Unchanged.
type Result struct {
	RunID           uuid.UUID                `json:"run_id"`
	Key             string                   `json:"key"`
	SubjectID       int64                    `json:"subject_id"`
	Score           float64                  `json:"score"`
	ScorePercentage int                      `json:"score_percentage"`
	Complete        bool                     `json:"complete"`
	Partial         bool                     `json:"partial"`
	Unchanged       bool                     `json:"unchanged"`
	Suggestions     []suggestions.Code       `json:"suggestions"`
	Actionable      []suggestions.Descriptor `json:"actionable"`
	Breakdown       json.RawMessage          `json:"breakdown,omitempty"`
	Persisted       *store.SaveResult        `json:"persisted,omitempty"`
	PersistError    string                   `json:"persist_error,omitempty"`
	ContentHash     string                   `json:"content_hash"`
	AnalyzedAt      time.Time                `json:"analyzed_at"`
}

type Broker struct {
	store    store.Store
	source   content.Source
	hermes   hermes.Client
	metrics  *metrics.Metrics
	registry *scoring.Registry
	weights  *weights.Registry
	catalog  *suggestions.Catalog
	docs     *content.DocumentCache
	cfg      *config.Config
	logger   *slog.Logger

	group singleflight.Group
	now   func() time.Time
}

// New wires a broker. s, h and m may be nil: nothing is persisted, published
// or measured respectively.
func New(s store.Store, src content.Source, h hermes.Client, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) (*Broker, error) {
	w, err := cfg.WeightRegistry()
	if err != nil {
		return nil, err
	}
	registry := checks.DefaultRegistry()
	for _, d := range registry.WeightDrift(w, scoring.DriftTolerance) {
		logger.Warn("weight group does not sum to 1.0", "group", d.Group, "sum", d.Sum)
	}
	return &Broker{
		store:    s,
		source:   src,
		hermes:   h,
		metrics:  m,
		registry: registry,
		weights:  w,
		catalog:  suggestions.Default(),
		docs:     content.NewDocumentCache(cfg.Cache.Documents, cfg.CacheTTL()),
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Registry returns the context/factor/operation table the broker runs.
func (b *Broker) Registry() *scoring.Registry { return b.registry }

func (b *Broker) Weights() *weights.Registry { return b.weights }

// Analyze runs req, sharing the run with any identical request already in
// flight. A caller whose ctx ends stops waiting; the shared run is detached
// from every caller and bounded only by analysis.timeout_ms.
func (b *Broker) Analyze(ctx context.Context, req Request) (*Result, error) {
	if req.SubjectID <= 0 {
		return nil, fmt.Errorf("%w: %d", scoring.ErrInvalidSubject, req.SubjectID)
	}
	key := req.key(fmt.Sprintf("optimiser:subject:%d", req.SubjectID))
	runCtx := context.WithoutCancel(ctx)
	ch := b.group.DoChan(key, func() (any, error) {
		return b.run(runCtx, req)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		out := *res.Val.(*Result)
		return &out, nil
	}
}

func (b *Broker) run(ctx context.Context, req Request) (*Result, error) {
	start := b.now()
	runID := uuid.New()
	if t := b.cfg.AnalysisTimeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	log := b.logger.With("subject_id", req.SubjectID, "run_id", runID)

	page, err := b.source.GetPage(ctx, req.SubjectID)
	if err != nil {
		b.metrics.RecordAnalysis(metrics.OutcomeError, b.now().Sub(start), 0)
		if errors.Is(err, content.ErrNotFound) {
			return nil, fmt.Errorf("%w: subject %d", scoring.ErrNotFound, req.SubjectID)
		}
		return nil, fmt.Errorf("load subject %d: %w", req.SubjectID, err)
	}
	hash := page.Fingerprint()

	opt, err := scoring.NewOptimiser(req.SubjectID,
		scoring.WithRegistry(b.registry),
		scoring.WithWeights(b.weights),
		scoring.WithCatalog(b.catalog),
		scoring.WithLogger(b.logger),
		scoring.WithParallelism(b.cfg.Analysis.Parallelism),
		scoring.WithObserver(b.metrics.Observer()),
		scoring.WithClock(b.now),
	)
	if err != nil {
		return nil, err
	}
	if err := opt.InitContexts(req.params()); err != nil {
		return nil, err
	}
	partial := req.params().Partial()

	if b.store != nil {
		if _, err := opt.LoadExisting(ctx, b.store); err != nil && !errors.Is(err, scoring.ErrNotFound) {
			log.Warn("failed to load stored score", "error", err)
		}
		if b.cfg.Analysis.SkipUnchanged && !req.Force && !partial {
			if res := b.unchanged(ctx, opt, runID, hash, log); res != nil {
				b.metrics.RecordAnalysis(metrics.OutcomeUnchanged, b.now().Sub(start), res.Score)
				return res, nil
			}
		}
	}

	provider := content.NewHTMLProvider(content.Snapshot{Page: page}, b.docs)
	score, err := opt.Analyze(ctx, provider)
	if err != nil {
		b.metrics.RecordAnalysis(metrics.OutcomeInterrupted, b.now().Sub(start), 0)
		b.publish(hermes.SubjectAnalysisInterrupted(subjectKey(req.SubjectID)), hermes.AnalysisInterruptedEvent{
			RunID:     runID.String(),
			SubjectID: req.SubjectID,
			Error:     err.Error(),
		})
		return nil, err
	}

	breakdown, err := json.Marshal(opt.Breakdown())
	if err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}
	res := &Result{
		RunID:           runID,
		Key:             opt.UniqueKey(),
		SubjectID:       req.SubjectID,
		Score:           score,
		ScorePercentage: store.Percentage(score),
		Complete:        opt.Complete(),
		Partial:         partial,
		Suggestions:     opt.Suggestions(),
		Actionable:      opt.ActionableSuggestions(),
		Breakdown:       breakdown,
		ContentHash:     hash,
		AnalyzedAt:      opt.AnalyzedAt,
	}

	outcome := metrics.OutcomeCompleted
	// partial runs never replace the stored full score
	if b.store != nil && res.Complete && !partial {
		if err := b.persist(ctx, opt, res); err != nil {
			outcome = metrics.OutcomePersistFailed
			res.PersistError = err.Error()
			log.Error("persist analysis failed", "error", err)
		}
	}

	duration := b.now().Sub(start)
	b.metrics.RecordAnalysis(outcome, duration, score)
	b.publish(hermes.SubjectAnalysisCompleted(subjectKey(req.SubjectID)), hermes.AnalysisCompletedEvent{
		RunID:           runID.String(),
		SubjectID:       req.SubjectID,
		Score:           score,
		ScorePercentage: res.ScorePercentage,
		Suggestions:     codeStrings(res.Suggestions),
		ContentHash:     hash,
		Partial:         partial,
		AnalyzedAt:      res.AnalyzedAt,
		DurationMs:      duration.Milliseconds(),
	})
	log.Info("analysis complete", "key", res.Key, "score", score, "duration_ms", duration.Milliseconds())
	return res, nil
}

// unchanged returns the stored result when the stored content hash matches.
func (b *Broker) unchanged(ctx context.Context, opt *scoring.Optimiser, runID uuid.UUID, hash string, log *slog.Logger) *Result {
	rec, err := b.store.GetAnalysis(ctx, opt.SubjectID)
	if err != nil {
		log.Warn("failed to load stored analysis", "error", err)
		return nil
	}
	if rec == nil || rec.ContentHash == "" || rec.ContentHash != hash {
		return nil
	}
	codes := make([]suggestions.Code, 0, len(rec.Suggestions))
	for _, s := range rec.Suggestions {
		codes = append(codes, suggestions.Code(s))
	}
	res := &Result{
		RunID:           runID,
		Key:             opt.UniqueKey(),
		SubjectID:       rec.SubjectID,
		Score:           rec.Score,
		ScorePercentage: rec.ScorePercentage,
		Complete:        true,
		Unchanged:       true,
		Suggestions:     codes,
		Actionable:      b.resolve(codes),
		Breakdown:       rec.Breakdown,
		ContentHash:     hash,
		AnalyzedAt:      rec.AnalyzedAt,
	}
	b.publish(hermes.SubjectAnalysisUnchanged(subjectKey(rec.SubjectID)), hermes.AnalysisUnchangedEvent{
		RunID:       runID.String(),
		SubjectID:   rec.SubjectID,
		Score:       rec.Score,
		ContentHash: hash,
	})
	log.Debug("content unchanged, reusing stored analysis", "key", res.Key)
	return res
}

// resolve maps stored codes to descriptors, priority first. Stored results
// carry no per-operation scores, so thresholds are not applied.
func (b *Broker) resolve(codes []suggestions.Code) []suggestions.Descriptor {
	out := make([]suggestions.Descriptor, 0, len(codes))
	for _, c := range codes {
		out = append(out, b.catalog.Resolve(c))
	}
	slices.SortStableFunc(out, func(x, y suggestions.Descriptor) int {
		return y.Priority.Rank() - x.Priority.Rank()
	})
	return out
}

func (b *Broker) persist(ctx context.Context, opt *scoring.Optimiser, res *Result) error {
	rec := &store.AnalysisRecord{
		SubjectID:       res.SubjectID,
		Score:           res.Score,
		ScorePercentage: res.ScorePercentage,
		SuggestionCount: len(res.Suggestions),
		Suggestions:     codeStrings(res.Suggestions),
		Breakdown:       res.Breakdown,
		ContentHash:     res.ContentHash,
		AnalyzedAt:      res.AnalyzedAt,
	}
	saved, err := b.store.SaveAnalysis(ctx, rec)
	res.Persisted = saved
	if saved != nil && saved.ScoreSaved {
		id := rec.ID
		opt.PersistedID = &id
		res.Key = opt.UniqueKey()
	}
	if err == nil {
		return nil
	}

	var groups []string
	for group, ok := range map[string]bool{
		"score":       saved != nil && saved.ScoreSaved,
		"suggestions": saved != nil && saved.SuggestionsSaved,
		"breakdown":   saved != nil && saved.BreakdownSaved,
	} {
		if !ok {
			groups = append(groups, group)
			b.metrics.RecordPersistenceFailure(group)
		}
	}
	slices.Sort(groups)
	b.publish(hermes.SubjectAnalysisPersistFailed(subjectKey(res.SubjectID)), hermes.PersistFailedEvent{
		RunID:     res.RunID.String(),
		SubjectID: res.SubjectID,
		Groups:    groups,
		Error:     err.Error(),
	})
	return err
}

func (b *Broker) publish(subject string, evt any) {
	if b.hermes == nil {
		return
	}
	if err := b.hermes.Publish(subject, evt); err != nil {
		b.logger.Warn("publish failed", "subject", subject, "error", err)
	}
}

// SetupSubscriptions listens for analysis requests on the bus.
func (b *Broker) SetupSubscriptions(ctx context.Context) error {
	if b.hermes == nil {
		return nil
	}
	return b.hermes.Subscribe(hermes.SubjectAnalysisRequest, func(_ string, data []byte) {
		var evt hermes.AnalysisRequestEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			b.logger.Warn("invalid analysis request event", "error", err)
			return
		}
		req := Request{SubjectID: evt.SubjectID, Contexts: evt.Contexts, Operations: evt.Operations, Force: evt.Force}
		go func() {
			if _, err := b.Analyze(ctx, req); err != nil {
				b.logger.Warn("analysis request failed", "subject_id", evt.SubjectID, "source", evt.Source, "error", err)
			}
		}()
	})
}

func subjectKey(id int64) string { return strconv.FormatInt(id, 10) }

func codeStrings(codes []suggestions.Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
