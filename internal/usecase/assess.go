// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/berachah-academy/ikigai-api/internal/adapter/observability"
	"github.com/berachah-academy/ikigai-api/internal/domain"
	"github.com/berachah-academy/ikigai-api/internal/questionbank"
	"github.com/berachah-academy/ikigai-api/internal/scoring"
	"github.com/berachah-academy/ikigai-api/internal/service/feedback"
)

// AssessService sequences the pipeline: score → transcript → feedback →
// best-effort persist.
type AssessService struct {
	Bank           *questionbank.Bank
	Rubric         scoring.Rubric
	Generator      *feedback.Generator
	Store          domain.RecordStore
	PersistTimeout time.Duration
}

// NewAssessService constructs an AssessService. Store may be nil when
// persistence is not configured.
func NewAssessService(bank *questionbank.Bank, rubric scoring.Rubric, gen *feedback.Generator, store domain.RecordStore, persistTimeout time.Duration) AssessService {
	return AssessService{Bank: bank, Rubric: rubric, Generator: gen, Store: store, PersistTimeout: persistTimeout}
}

// AssessRequest is the validated inbound request.
type AssessRequest struct {
	User       domain.Identity
	Responses  map[string]string
	TestID     string
	FinishTime string
}

// AssessResult is the outbound response payload.
type AssessResult struct {
	Scores         domain.ElementScores
	AlignmentScore float64
	Feedback       domain.Feedback
}

// Assess runs the pipeline. Scoring failures abort before any external call;
// generation failures abort before persistence; persistence failures never
// surface (the record write is dispatched detached from the response path).
func (s AssessService) Assess(ctx context.Context, req AssessRequest) (AssessResult, error) {
	lg := observability.LoggerFromContext(ctx)
	if len(req.Responses) == 0 {
		return AssessResult{}, fmt.Errorf("%w: no responses provided", domain.ErrInvalidArgument)
	}
	lg.Info("assessment received",
		slog.String("username", req.User.Username),
		slog.String("test_id", req.TestID),
		slog.String("finish_time", req.FinishTime),
		slog.Int("responses", len(req.Responses)))

	scores, alignment, err := s.Rubric.ScoreAll(req.Responses)
	if err != nil {
		return AssessResult{}, err
	}
	lg.Info("assessment scored",
		slog.Float64("love", scores.Love),
		slog.Float64("skill", scores.Skill),
		slog.Float64("world", scores.World),
		slog.Float64("paid", scores.Paid),
		slog.Float64("alignment", alignment))
	observability.AlignmentScoreHistogram.Observe(alignment)

	transcript := s.Bank.Transcript(req.Responses)
	fb, err := s.Generator.Generate(ctx, req.User.Username, transcript, scores, alignment)
	if err != nil {
		return AssessResult{}, err
	}

	rec := domain.AssessmentRecord{
		User:           req.User,
		TestID:         req.TestID,
		CompletedAt:    req.FinishTime,
		Responses:      req.Responses,
		Scores:         scores,
		AlignmentScore: alignment,
		Feedback:       fb,
		SubmittedAt:    time.Now().UTC(),
	}
	s.persistDetached(lg, rec)

	return AssessResult{Scores: scores, AlignmentScore: alignment, Feedback: fb}, nil
}

// persistDetached dispatches the record write on its own goroutine with its
// own deadline, so the response never waits on the store and a store outage
// never fails the request. Completion is still logged either way.
func (s AssessService) persistDetached(lg *slog.Logger, rec domain.AssessmentRecord) {
	if s.Store == nil {
		lg.Debug("record store not configured; skipping persist")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.PersistTimeout)
		defer cancel()
		if err := s.Store.Save(ctx, rec); err != nil {
			observability.PersistenceWritesTotal.WithLabelValues("failure").Inc()
			lg.Error("assessment persist failed", slog.Any("error", err))
			return
		}
		observability.PersistenceWritesTotal.WithLabelValues("success").Inc()
		lg.Info("assessment persisted", slog.String("username", rec.User.Username))
	}()
}
