package http

import (
	"context"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/service"
	"github.com/stretchr/testify/mock"
)

type mockAdviceService struct {
	mock.Mock
}

func (m *mockAdviceService) Calculate(ctx context.Context, req service.AdviceRequest) (*model.PackagingAdviceResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackagingAdviceResult), args.Error(1)
}

func (m *mockAdviceService) Get(ctx context.Context, id string) (*model.PackagingAdviceResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackagingAdviceResult), args.Error(1)
}

func (m *mockAdviceService) LatestForOrder(ctx context.Context, orderID int64) (*model.PackagingAdviceResult, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackagingAdviceResult), args.Error(1)
}

func (m *mockAdviceService) List(ctx context.Context, filter model.AdviceFilter) ([]model.PackagingAdviceResult, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.PackagingAdviceResult), args.Get(1).(int64), args.Error(2)
}

type mockTagApplier struct {
	mock.Mock
}

func (m *mockTagApplier) Apply(ctx context.Context, adviceID string) ([]string, error) {
	args := m.Called(ctx, adviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockFeedbackService struct {
	mock.Mock
}

func (m *mockFeedbackService) RecordOutcome(ctx context.Context, adviceID string, actual []model.ActualBox) (*model.OutcomeRecord, error) {
	args := m.Called(ctx, adviceID, actual)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OutcomeRecord), args.Error(1)
}

var (
	_ service.AdviceService   = (*mockAdviceService)(nil)
	_ service.TagApplier      = (*mockTagApplier)(nil)
	_ service.FeedbackService = (*mockFeedbackService)(nil)
)
