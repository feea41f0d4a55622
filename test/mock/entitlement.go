// test/mock/entitlement.go
package mock

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/assetops/entitlements/model"
)

// MockEntitlementService is a mock implementation of service.IEntitlementService
type MockEntitlementService struct {
	mock.Mock
}

func (m *MockEntitlementService) CheckServiceTag(ctx context.Context, tag string) (model.WarrantySummary, error) {
	args := m.Called(ctx, tag)
	return args.Get(0).(model.WarrantySummary), args.Error(1)
}

func (m *MockEntitlementService) EntitlementRecords(ctx context.Context, tag string) ([]model.Record, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockEntitlementService) RawEntitlements(ctx context.Context, tag string) (json.RawMessage, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockEntitlementService) ProcessAssets(ctx context.Context, assets []model.Asset, concurrency int) []model.Record {
	args := m.Called(ctx, assets, concurrency)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.Record)
}
