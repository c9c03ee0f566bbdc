package queries_test

import (
	"testing"
	"time"

	"parcelflow/internal/core/application/usecases/queries"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueries_NotConstructedViaConstructor(t *testing.T) {
	testCases := []struct {
		name     string
		validate func() error
		expected error
	}{
		{"GetParcel", queries.GetParcelQuery{}.Validate, queries.ErrGetParcelQueryIsNotConstructed},
		{"ParcelHistory", queries.ParcelHistoryQuery{}.Validate, queries.ErrParcelHistoryQueryIsNotConstructed},
		{"LegHistory", queries.LegHistoryQuery{}.Validate, queries.ErrLegHistoryQueryIsNotConstructed},
		{"CurrentPosition", queries.CurrentPositionQuery{}.Validate, queries.ErrCurrentPositionQueryIsNotConstructed},
		{"NearbyCouriers", queries.NearbyCouriersQuery{}.Validate, queries.ErrNearbyCouriersQueryIsNotConstructed},
		{"ListOverdueLegs", queries.ListOverdueLegsQuery{}.Validate, queries.ErrListOverdueLegsQueryIsNotConstructed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.validate(), tc.expected)
		})
	}
}

func TestNewGetParcelByTrackingNumberQuery_RequiresNumber(t *testing.T) {
	_, err := queries.NewGetParcelByTrackingNumberQuery("   ", time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewGetParcelQuery_InvalidID(t *testing.T) {
	_, err := queries.NewGetParcelQuery(kernel.UUID{}, time.Now())

	require.Error(t, err)
}

func TestNewNearbyCouriersQuery_RadiusIsCapped(t *testing.T) {
	query, err := queries.NewNearbyCouriersQuery(52.52, 13.40, 500, services.NearbyFilter{})

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.InDelta(t, services.MaxSearchRadiusKm, query.RadiusKm(), 1e-9)
}

func TestNewNearbyCouriersQuery_InvalidInput(t *testing.T) {
	testCases := []struct {
		name          string
		lat, lon, rad float64
	}{
		{name: "latitude out of range", lat: 91, lon: 0, rad: 1},
		{name: "longitude out of range", lat: 0, lon: -180.5, rad: 1},
		{name: "zero radius", lat: 0, lon: 0, rad: 0},
		{name: "negative radius", lat: 0, lon: 0, rad: -3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := queries.NewNearbyCouriersQuery(tc.lat, tc.lon, tc.rad, services.NearbyFilter{})
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		})
	}
}

func TestNewListOverdueLegsQuery_DefaultLimit(t *testing.T) {
	query, err := queries.NewListOverdueLegsQuery(time.Now(), 0)

	require.NoError(t, err)
	assert.Equal(t, queries.DefaultOverdueLegsLimit, query.Limit())

	_, err = queries.NewListOverdueLegsQuery(time.Time{}, 10)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
