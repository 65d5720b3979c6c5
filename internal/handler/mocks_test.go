package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/outcome"
	"github.com/osse101/PrizeKiosk_Go/internal/reward"
)

type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) Report() domain.StockReport {
	return m.Called().Get(0).(domain.StockReport)
}

func (m *MockStockService) Bands() reward.BandReport {
	return m.Called().Get(0).(reward.BandReport)
}

func (m *MockStockService) TopUpToday(ctx context.Context, id string, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *MockStockService) SetTodayStock(ctx context.Context, id string, value int) error {
	return m.Called(ctx, id, value).Error(0)
}

func (m *MockStockService) SetCampaignStock(ctx context.Context, id string, value int) error {
	return m.Called(ctx, id, value).Error(0)
}

func (m *MockStockService) ForceResetToday(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStockService) EmitCurrentLowStock(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockStockService) SetLowStockThreshold(ctx context.Context, threshold int) {
	m.Called(ctx, threshold)
}

func (m *MockStockService) DecrementByItemID(ctx context.Context, id string) bool {
	return m.Called(ctx, id).Bool(0)
}

type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, score int) reward.Result {
	return m.Called(ctx, score).Get(0).(reward.Result)
}

func (m *MockEvaluator) Release(ctx context.Context, token string) bool {
	return m.Called(ctx, token).Bool(0)
}

type MockPlayResolver struct {
	mock.Mock
}

func (m *MockPlayResolver) Resolve(ctx context.Context, play outcome.Play) (outcome.Payload, error) {
	args := m.Called(ctx, play)
	return args.Get(0).(outcome.Payload), args.Error(1)
}

type MockCatalogReloader struct {
	mock.Mock
}

func (m *MockCatalogReloader) Reload(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogReloader) Catalog() *catalog.Catalog {
	cat, _ := m.Called().Get(0).(*catalog.Catalog)
	return cat
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) CheckHealth(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
