// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ProductAttributes(ctx context.Context, productIDs []int64) (map[int64]model.ProductAttributes, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]model.ProductAttributes), args.Error(1)
}

func (m *MockCatalog) CompositionParts(ctx context.Context, parentIDs []int64) (map[int64][]model.CompositionPart, error) {
	args := m.Called(ctx, parentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]model.CompositionPart), args.Error(1)
}

func (m *MockCatalog) ShippingUnitNames(ctx context.Context, unitIDs []string) (map[string]string, error) {
	args := m.Called(ctx, unitIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockCatalog) DefaultContainers(ctx context.Context, unitIDs []string) (map[string]string, error) {
	args := m.Called(ctx, unitIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockCatalogWriter struct {
	mock.Mock
}

func (m *MockCatalogWriter) UpsertProductAttributes(ctx context.Context, attrs model.ProductAttributes) error {
	args := m.Called(ctx, attrs)
	return args.Error(0)
}

func (m *MockCatalogWriter) ReplaceCompositionParts(ctx context.Context, parentID int64, parts []model.CompositionPart) error {
	args := m.Called(ctx, parentID, parts)
	return args.Error(0)
}

func (m *MockCatalogWriter) ActiveShippingUnits(ctx context.Context, productType string) ([]model.ShippingUnit, error) {
	args := m.Called(ctx, productType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShippingUnit), args.Error(1)
}

func (m *MockCatalogWriter) SetClassification(ctx context.Context, productID int64, unitID *string, status model.ClassificationStatus) error {
	args := m.Called(ctx, productID, unitID, status)
	return args.Error(0)
}
