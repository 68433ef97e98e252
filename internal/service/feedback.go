package service

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/rs/zerolog/log"
)

// FeedbackService records how the warehouse actually packed an advised order.
type FeedbackService interface {
	RecordOutcome(ctx context.Context, adviceID string, actual []model.ActualBox) (*model.OutcomeRecord, error)
}

// FeedbackServiceImpl implements FeedbackService.
type FeedbackServiceImpl struct {
	store AdviceStore
	now   func() time.Time
}

// NewFeedbackService creates a feedback service.
func NewFeedbackService(store AdviceStore) *FeedbackServiceImpl {
	return &FeedbackServiceImpl{store: store, now: time.Now}
}

// RecordOutcome compares the advised boxes with the boxes used and stores the result.
func (s *FeedbackServiceImpl) RecordOutcome(ctx context.Context, adviceID string, actual []model.ActualBox) (*model.OutcomeRecord, error) {
	if s.store == nil {
		return nil, ErrRepositoryNotConfigured
	}
	advice, err := s.store.FindByID(ctx, adviceID)
	if err != nil {
		return nil, err
	}
	if advice == nil {
		return nil, ErrAdviceNotFound
	}

	if actual == nil {
		actual = []model.ActualBox{}
	}
	outcome, deviation := ComputeOutcome(advice.AdviceBoxes, actual)
	record := model.OutcomeRecord{
		Outcome:     outcome,
		Deviation:   deviation,
		ActualBoxes: actual,
		ResolvedAt:  s.now().UTC(),
	}
	if err := s.store.SaveOutcome(ctx, advice.ID, record); err != nil {
		return nil, fmt.Errorf("save outcome: %w", err)
	}

	log.Info().
		Str("advice_id", advice.ID).
		Str("outcome", string(outcome)).
		Str("deviation", string(deviation)).
		Msg("Advice outcome recorded")
	return &record, nil
}

// ComputeOutcome compares advised and actual external container ids as multisets.
func ComputeOutcome(advised []model.AdviceBox, actual []model.ActualBox) (model.Outcome, model.Deviation) {
	if len(advised) == 0 {
		return model.OutcomeNoAdvice, model.DeviationNone
	}

	remaining := make(map[int64]int, len(actual))
	for _, b := range actual {
		remaining[b.ExternalContainerID]++
	}

	overlap := 0
	for _, b := range advised {
		if remaining[b.ExternalContainerID] > 0 {
			remaining[b.ExternalContainerID]--
			overlap++
		}
	}

	switch {
	case overlap == len(advised) && len(actual) == len(advised):
		return model.OutcomeFollowed, model.DeviationNone
	case overlap == 0:
		return model.OutcomeIgnored, model.DeviationDifferentPackaging
	case len(actual) > len(advised) && overlap == len(advised):
		return model.OutcomeModified, model.DeviationExtraBoxes
	case len(actual) > len(advised):
		return model.OutcomeModified, model.DeviationMixed
	case len(actual) < len(advised):
		return model.OutcomeModified, model.DeviationFewerBoxes
	default:
		return model.OutcomeModified, model.DeviationDifferentPackaging
	}
}
