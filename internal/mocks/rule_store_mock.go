// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockRuleStore struct {
	mock.Mock
}

func (m *MockRuleStore) ListAdviceContainers(ctx context.Context) ([]model.Container, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Container), args.Error(1)
}

func (m *MockRuleStore) ContainersByID(ctx context.Context, ids []string) (map[string]model.Container, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.Container), args.Error(1)
}

func (m *MockRuleStore) ActiveRules(ctx context.Context, containerIDs []string) ([]model.CompartmentRule, error) {
	args := m.Called(ctx, containerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CompartmentRule), args.Error(1)
}
