package landscape

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/joelkehle/drug-landscape/internal/logger"
	"github.com/joelkehle/drug-landscape/internal/records"
	"github.com/joelkehle/drug-landscape/internal/telemetry"
)

const (
	DefaultTopDrugs        = 10
	DefaultRecommendations = 5
)

type Options struct {
	TopDrugs        int
	Recommendations int
}

// Engine answers landscape queries over one immutable store. Load-time indexes
// are built once in NewEngine; every Refresh recomputes its outputs from scratch,
// so an Engine is safe for concurrent use.
type Engine struct {
	store      *records.Store
	resolver   *CategoryResolver
	trialDrugs trialDrugIndex
	diseases   []string
	opts       Options
	log        *logger.Logger
}

func NewEngine(store *records.Store, opts Options, log *logger.Logger) *Engine {
	if opts.TopDrugs <= 0 {
		opts.TopDrugs = DefaultTopDrugs
	}
	if opts.Recommendations <= 0 {
		opts.Recommendations = DefaultRecommendations
	}
	return &Engine{
		store:      store,
		resolver:   NewCategoryResolver(store.Rows(records.DrugDictionary)),
		trialDrugs: newTrialDrugIndex(store.Rows(records.TrialDrugs)),
		diseases:   store.DistinctDiseases(),
		opts:       opts,
		log:        logger.OrNop(log),
	}
}

func (e *Engine) Store() *records.Store { return e.store }

// Diseases returns the sorted distinct disease labels across the four
// disease-bearing datasets.
func (e *Engine) Diseases() []string {
	out := make([]string, len(e.diseases))
	copy(out, e.diseases)
	return out
}

func (e *Engine) CategoryOf(drugName string) string {
	return e.resolver.CategoryOf(drugName)
}

func (e *Engine) Phase34Drugs(disease string) []string {
	return phase34Drugs(e.store.Rows(records.Trials), e.trialDrugs, disease)
}

func (e *Engine) Recommend(disease string) Recommendations {
	return recommend(e.store.Rows(records.TrialDrugs), disease, e.opts.Recommendations)
}

// Refresh computes every aggregate for disease. With includeSecondary false the
// publication-derived outputs are present but empty.
func (e *Engine) Refresh(ctx context.Context, disease string, includeSecondary bool) (*Result, error) {
	if strings.TrimSpace(disease) == "" {
		return nil, NewValidationError("disease is required")
	}
	_, span := telemetry.Tracer().Start(ctx, "landscape.refresh")
	defer span.End()
	span.SetAttributes(
		attribute.String("disease", disease),
		attribute.Bool("include_secondary", includeSecondary),
	)
	start := time.Now()

	trials := e.store.Rows(records.Trials)
	trialLinks := e.store.Rows(records.TrialDrugs)
	pubLinks := e.store.Rows(records.PublicationDrugs)
	pubs := e.store.Rows(records.Publications)

	res := &Result{
		Disease:               disease,
		IncludeSecondary:      includeSecondary,
		Interventions:         DistributionBy(trials, disease, records.ColInterventionTypes, true),
		Phases:                DistributionBy(trials, disease, records.ColPhases, true),
		PublicationTypes:      Distribution{},
		TrialCategories:       CategoryDistribution(trialLinks, disease, e.resolver),
		PublicationCategories: Distribution{},
		TopTrialDrugs:         TopNDrugs(trialLinks, disease, e.opts.TopDrugs),
		TopPublicationDrugs:   []DrugCount{},
		Phase34Drugs:          e.Phase34Drugs(disease),
		Recommendations:       e.Recommend(disease),
	}
	if includeSecondary {
		res.PublicationTypes = DistributionBy(pubs, disease, records.ColPublicationTypes, true)
		res.PublicationCategories = CategoryDistribution(pubLinks, disease, e.resolver)
		res.TopPublicationDrugs = TopNDrugs(pubLinks, disease, e.opts.TopDrugs)
	}

	matchedTrialLinks := MatchingRows(trialLinks, disease)
	matchedPubLinks := MatchingRows(pubLinks, disease)
	res.Rows = resultRows(matchedTrialLinks, matchedPubLinks, includeSecondary)
	res.Notes = assembleNotes(res, len(MatchingRows(trials, disease)), len(MatchingRows(pubs, disease)))

	span.SetAttributes(
		attribute.Int("rows", len(res.Rows)),
		attribute.String("recommendation_status", string(res.Recommendations.Status)),
	)
	e.log.Debug("landscape refreshed",
		"disease", disease,
		"include_secondary", includeSecondary,
		"rows", len(res.Rows),
		"recommendations", len(res.Recommendations.Items),
		"recommendation_status", string(res.Recommendations.Status),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
