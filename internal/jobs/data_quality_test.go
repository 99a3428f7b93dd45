package jobs

import (
	"context"
	"errors"
	"testing"

	"sipor/internal/classify"
	"sipor/internal/config"
	"sipor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSnapshotService mocks the SnapshotService interface for testing
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

func newDataQualityService(snapshots *MockSnapshotService) *DataQualityService {
	return NewDataQualityService(snapshots, classify.FromConfig(&config.Default().Classification))
}

func TestCheckDataQualityCleanSnapshot(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{
		Inventory: []models.Record{{Item: "Estiba Plana", Quantity: 10}},
	}, nil)

	alerts, err := newDataQualityService(snapshots).CheckDataQuality(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCheckDataQualityReportsCoercions(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{
		Diagnostics: models.LoadDiagnostics{CoercedQuantities: 3},
	}, nil)

	alerts, err := newDataQualityService(snapshots).CheckDataQuality(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "coerced_quantities", alerts[0].Kind)
}

func TestCheckDataQualityRespectsThreshold(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{
		Diagnostics: models.LoadDiagnostics{CoercedQuantities: 3},
	}, nil)

	alerts, err := newDataQualityService(snapshots).CheckDataQuality(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCheckDataQualityReportsAllConditions(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(&models.Snapshot{
		Inventory: []models.Record{
			{Item: "Montacargas", Quantity: 1},
			{Item: "Estiba Plana", Quantity: 10},
		},
		Diagnostics: models.LoadDiagnostics{
			CoercedQuantities: 2,
			UndatedRows:       1,
			MissingColumns: []models.MissingColumns{
				{Subset: "events", Columns: []string{"turno"}},
			},
		},
	}, nil)

	alerts, err := newDataQualityService(snapshots).CheckDataQuality(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, alerts, 4)

	kinds := make([]string, len(alerts))
	for i, a := range alerts {
		kinds[i] = a.Kind
	}
	assert.Equal(t, []string{"coerced_quantities", "undated_rows", "missing_columns", "unclassified_items"}, kinds)
	assert.Contains(t, alerts[3].Message, "Montacargas")
}

func TestCheckDataQualityLoadError(t *testing.T) {
	snapshots := new(MockSnapshotService)
	snapshots.On("Load", mock.Anything).Return(nil, errors.New("source down"))

	alerts, err := newDataQualityService(snapshots).CheckDataQuality(context.Background(), 1)
	assert.Error(t, err)
	assert.Nil(t, alerts)
}
