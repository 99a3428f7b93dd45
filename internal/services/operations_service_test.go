package services

import (
	"context"
	"testing"
	"time"

	"sipor/internal/analytics"
	"sipor/internal/classify"
	"sipor/internal/config"
	"sipor/internal/models"
	"sipor/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) Load(ctx context.Context) (*models.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

func (m *MockSnapshotService) Refresh(ctx context.Context) (*models.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

func (m *MockSnapshotService) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testEngine() *analytics.Service {
	return analytics.NewService(classify.FromConfig(&config.Default().Classification), 5)
}

func testDay(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestOperationsSummary(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{
		Events: []models.Record{
			{EventType: "Reparada", Shift: "Dia", Zone: "Patio 1", Date: testDay(10), Quantity: 8},
			{EventType: "Baja", Shift: "Noche", Zone: "Bodega", Date: testDay(12), Quantity: 2},
		},
	}, nil)

	svc := NewOperationsService(snapshots, testEngine(), 30)
	summary, err := svc.Summary(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, summary.NoValidDates)
	assert.Equal(t, testDay(10), summary.Window.Start)
	assert.Equal(t, testDay(12), summary.Window.End)
	require.NotNil(t, summary.Events)
	assert.Equal(t, 8.0, summary.Events.Repairs)
	assert.Equal(t, 2.0, summary.Events.WriteOffs)
	require.NotNil(t, summary.RepairsTrend)
	assert.Nil(t, summary.RepairsTrend.ChangePct)
}

func TestOperationsSummaryNoValidDates(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{
		Events: []models.Record{{EventType: "Reparada", Quantity: 5}},
	}, nil)

	svc := NewOperationsService(snapshots, testEngine(), 30)
	summary, err := svc.Summary(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, summary.NoValidDates)
	assert.Nil(t, summary.Events)
	assert.Nil(t, summary.RepairsTrend)
}

func TestOperationsSummaryFiltersNarrowAggregationOnly(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{
		Events: []models.Record{
			{EventType: "Reparada", Shift: "Dia", Date: testDay(1), Quantity: 8},
			{EventType: "Reparada", Shift: "Noche", Date: testDay(20), Quantity: 3},
		},
	}, nil)

	svc := NewOperationsService(snapshots, testEngine(), 30)
	summary, err := svc.Summary(context.Background(), &models.EventFilter{Shifts: []string{"Dia"}})
	require.NoError(t, err)

	// The window still spans the full event set.
	assert.Equal(t, testDay(1), summary.Window.Start)
	assert.Equal(t, testDay(20), summary.Window.End)
	assert.Equal(t, 8.0, summary.Events.Repairs)
}

func TestOperationsSummaryLoadError(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(nil, repositories.ErrSourceUnavailable)

	svc := NewOperationsService(snapshots, testEngine(), 30)
	_, err := svc.Summary(context.Background(), nil)
	assert.ErrorIs(t, err, repositories.ErrSourceUnavailable)
}

func TestOperationsDeltas(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{
		Inventory: []models.Record{
			{Item: "Estiba Plana", Date: testDay(1), Quantity: 100},
			{Item: "Estiba Plana", Date: testDay(20), Quantity: 120},
		},
		Events: []models.Record{
			{EventType: "Reparada", Date: testDay(1), Quantity: 1},
			{EventType: "Reparada", Date: testDay(20), Quantity: 1},
		},
	}, nil)

	svc := NewOperationsService(snapshots, testEngine(), 30)
	report, err := svc.Deltas(context.Background())
	require.NoError(t, err)

	require.False(t, report.InsufficientRange)
	require.Len(t, report.Increases, 1)
	assert.Equal(t, 20.0, report.Increases[0].Delta)
}

func TestOperationsDeltasFallsBackToInventoryWindow(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{
		Inventory: []models.Record{
			{Item: "Estiba Plana", Date: testDay(1), Quantity: 100},
			{Item: "Estiba Plana", Date: testDay(20), Quantity: 90},
		},
	}, nil)

	svc := NewOperationsService(snapshots, testEngine(), 30)
	report, err := svc.Deltas(context.Background())
	require.NoError(t, err)

	require.False(t, report.InsufficientRange)
	require.Len(t, report.Decreases, 1)
	assert.Equal(t, -10.0, report.Decreases[0].Delta)
}

func TestOperationsDeltasNoDatesAnywhere(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{
		Inventory: []models.Record{{Item: "Estiba Plana", Quantity: 100}},
	}, nil)

	svc := NewOperationsService(snapshots, testEngine(), 30)
	report, err := svc.Deltas(context.Background())
	require.NoError(t, err)
	assert.True(t, report.InsufficientRange)
	assert.NotNil(t, report.Increases)
	assert.NotNil(t, report.Decreases)
}

func TestOperationsFilterOptions(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{
		Events: []models.Record{
			{Shift: "Noche", Zone: "Patio 1", Date: testDay(10)},
			{Shift: "Dia", Zone: "Bodega", Date: testDay(12)},
			{Shift: "Madrugada", Zone: "Muelle", Date: testDay(12).AddDate(-1, 0, 0)}, // outside window
		},
	}, nil)

	svc := NewOperationsService(snapshots, testEngine(), 30)
	options, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Dia", "Noche"}, options.Shifts)
	assert.Equal(t, []string{"Bodega", "Patio 1"}, options.Zones)
}

func TestOperationsFilterOptionsNoDates(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{}, nil)

	svc := NewOperationsService(snapshots, testEngine(), 30)
	options, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)

	assert.Empty(t, options.Shifts)
	assert.Empty(t, options.Zones)
}
