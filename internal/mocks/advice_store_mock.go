// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"time"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockAdviceStore struct {
	mock.Mock
}

func (m *MockAdviceStore) LatestActive(ctx context.Context, orderID int64) (*model.PackagingAdviceResult, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackagingAdviceResult), args.Error(1)
}

func (m *MockAdviceStore) Invalidate(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAdviceStore) Insert(ctx context.Context, advice *model.PackagingAdviceResult) error {
	args := m.Called(ctx, advice)
	return args.Error(0)
}

func (m *MockAdviceStore) FindByID(ctx context.Context, id string) (*model.PackagingAdviceResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackagingAdviceResult), args.Error(1)
}

func (m *MockAdviceStore) MarkApplied(ctx context.Context, id string, tags []string, at time.Time) error {
	args := m.Called(ctx, id, tags, at)
	return args.Error(0)
}

func (m *MockAdviceStore) SaveOutcome(ctx context.Context, id string, outcome model.OutcomeRecord) error {
	args := m.Called(ctx, id, outcome)
	return args.Error(0)
}

func (m *MockAdviceStore) List(ctx context.Context, filter model.AdviceFilter) ([]model.PackagingAdviceResult, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.PackagingAdviceResult), args.Get(1).(int64), args.Error(2)
}
