// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/ordersystem"
	"github.com/stretchr/testify/mock"
)

type MockOrderTagger struct {
	mock.Mock
}

func (m *MockOrderTagger) OrderTags(ctx context.Context, orderID int64) ([]model.Tag, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockOrderTagger) TagDefinitions(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockOrderTagger) AddOrderTag(ctx context.Context, orderID, tagID int64) error {
	args := m.Called(ctx, orderID, tagID)
	return args.Error(0)
}

func (m *MockOrderTagger) RemoveOrderTag(ctx context.Context, orderID, tagID int64) error {
	args := m.Called(ctx, orderID, tagID)
	return args.Error(0)
}

type MockProductFetcher struct {
	mock.Mock
}

func (m *MockProductFetcher) Product(ctx context.Context, productID int64) (*ordersystem.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersystem.Product), args.Error(1)
}

func (m *MockProductFetcher) ProductParts(ctx context.Context, productID int64) ([]ordersystem.ProductPart, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordersystem.ProductPart), args.Error(1)
}

type MockProductSyncer struct {
	mock.Mock
}

func (m *MockProductSyncer) SyncAndClassify(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}
