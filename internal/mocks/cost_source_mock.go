// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockCostSource struct {
	mock.Mock
}

func (m *MockCostSource) CostsForCountry(ctx context.Context, countryCode string) (model.CountryCosts, bool) {
	args := m.Called(ctx, countryCode)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(model.CountryCosts), args.Bool(1)
}

type MockCostBroadcaster struct {
	mock.Mock
}

func (m *MockCostBroadcaster) Publish(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCostInvalidator struct {
	mock.Mock
}

func (m *MockCostInvalidator) Invalidate() {
	m.Called()
}
