package queries_test

import (
	"context"
	"testing"
	"time"

	"parcelflow/internal/adapters/out/postgres/courierrepo"
	"parcelflow/internal/adapters/out/postgres/ledgerrepo"
	"parcelflow/internal/adapters/out/postgres/legrepo"
	"parcelflow/internal/adapters/out/postgres/parcelrepo"
	"parcelflow/internal/adapters/out/postgres/pgtest"
	"parcelflow/internal/adapters/out/postgres/storagerepo"
	"parcelflow/internal/core/application/usecases/queries"
	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/model/storage"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var t0 = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type QueriesIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *QueriesIntegrationTestSuite) TestGetParcel_ByTrackingNumber_WithStorageAndLeg() {
	ctx := suite.T().Context()
	warehouseID := kernel.NewUUID()
	p := suite.storedParcel(warehouseID)
	assignment := suite.assign(p.ID(), warehouseID)
	l := suite.scheduleLeg(nil, t0.Add(time.Hour), p.ID())

	query, err := queries.NewGetParcelByTrackingNumberQuery(p.TrackingNumber(), t0.Add(time.Minute))
	suite.Require().NoError(err)

	view, err := queries.NewGetParcelQueryHandler(suite.database.DB).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(p.ID(), view.ID)
	suite.Equal("stored", view.Status)
	suite.Equal(parcel.LocationWarehouse.String(), view.Location.Kind)
	suite.Require().NotNil(view.Location.Ref)
	suite.Equal(warehouseID, *view.Location.Ref)
	suite.Require().NotNil(view.Storage)
	suite.Equal(assignment.ID(), view.Storage.AssignmentID)
	suite.Equal("A-1", view.Storage.Area)
	suite.Require().NotNil(view.ActiveLeg)
	suite.Equal(l.ID(), view.ActiveLeg.LegID)
	suite.Nil(view.ActiveLeg.CourierID)
}

func (suite *QueriesIntegrationTestSuite) TestGetParcel_UnknownParcel() {
	query, err := queries.NewGetParcelQuery(kernel.NewUUID(), t0)
	suite.Require().NoError(err)

	_, err = queries.NewGetParcelQueryHandler(suite.database.DB).Handle(suite.T().Context(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestParcelHistory_OldestFirst() {
	ctx := suite.T().Context()
	warehouseID := kernel.NewUUID()
	p := suite.storedParcel(warehouseID)

	box, err := parcel.StorageBoxLocation(kernel.NewUUID())
	suite.Require().NoError(err)
	entry, err := p.Relocate(box, "moved to locker", t0.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(parcelrepo.NewGormParcelRepository(suite.database.DB).Update(ctx, p))
	_, err = ledgerrepo.NewGormLocationLedger(suite.database.DB).Append(ctx, entry)
	suite.Require().NoError(err)

	query, err := queries.NewParcelHistoryQuery(p.ID())
	suite.Require().NoError(err)
	history, err := queries.NewParcelHistoryQueryHandler(suite.database.DB).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(history, 2)
	suite.Equal(parcel.LocationWarehouse.String(), history[0].Location.Kind)
	suite.Equal(parcel.LocationStorageBox.String(), history[1].Location.Kind)
	suite.Equal("moved to locker", history[1].Description)
	suite.True(history[1].MovedAt.Equal(t0.Add(time.Hour)))

	unknown, err := queries.NewParcelHistoryQuery(kernel.NewUUID())
	suite.Require().NoError(err)
	_, err = queries.NewParcelHistoryQueryHandler(suite.database.DB).Handle(ctx, unknown)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestLegHistory_OldestFirst() {
	ctx := suite.T().Context()
	courierID := kernel.NewUUID()
	l := suite.scheduleLeg(&courierID, t0.Add(time.Hour), kernel.NewUUID())

	repo := legrepo.NewGormLegRepository(suite.database.DB)
	started, err := l.Start(t0.Add(time.Hour), "picked up")
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Update(ctx, l))
	_, err = repo.AppendHistory(ctx, started)
	suite.Require().NoError(err)

	query, err := queries.NewLegHistoryQuery(l.ID())
	suite.Require().NoError(err)
	history, err := queries.NewLegHistoryQueryHandler(suite.database.DB).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(history, 2)
	suite.Equal(leg.Scheduled.String(), history[0].Status)
	suite.Equal(leg.InProgress.String(), history[1].Status)
	suite.Equal("picked up", history[1].Remarks)
}

func (suite *QueriesIntegrationTestSuite) TestCurrentPosition() {
	ctx := suite.T().Context()
	silent := suite.courier("Silent", true, true)
	reporting := suite.courier("Reporting", true, true)
	suite.report(reporting, 52.52, 13.40)

	query, err := queries.NewCurrentPositionQuery(reporting.ID())
	suite.Require().NoError(err)
	position, err := queries.NewCurrentPositionQueryHandler(suite.database.DB).Handle(ctx, query)
	suite.Require().NoError(err)
	suite.InDelta(52.52, position.Lat, 1e-9)
	suite.InDelta(13.40, position.Lon, 1e-9)
	suite.True(position.CapturedAt.Equal(t0))

	query, err = queries.NewCurrentPositionQuery(silent.ID())
	suite.Require().NoError(err)
	_, err = queries.NewCurrentPositionQueryHandler(suite.database.DB).Handle(ctx, query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestNearbyCouriers_SortedByDistanceAndFiltered() {
	ctx := suite.T().Context()
	near := suite.courier("Near", true, true)
	far := suite.courier("Far", true, true)
	busy := suite.courier("Busy", false, true)
	outside := suite.courier("Outside", true, true)
	suite.report(far, 52.540, 13.40)
	suite.report(near, 52.521, 13.40)
	suite.report(busy, 52.520, 13.40)
	suite.report(outside, 48.13, 11.58)

	query, err := queries.NewNearbyCouriersQuery(52.52, 13.40, 5, services.NearbyFilter{AvailableOnly: true})
	suite.Require().NoError(err)
	found, err := queries.NewNearbyCouriersQueryHandler(suite.database.DB).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(found, 2)
	suite.Equal(near.ID(), found[0].CourierID)
	suite.Equal(far.ID(), found[1].CourierID)
	suite.Less(found[0].DistanceKm, found[1].DistanceKm)
}

func (suite *QueriesIntegrationTestSuite) TestListOverdueLegs() {
	ctx := suite.T().Context()
	overdue := suite.scheduleLeg(nil, t0, kernel.NewUUID(), kernel.NewUUID())
	suite.scheduleLeg(nil, t0.Add(48*time.Hour), kernel.NewUUID())

	query, err := queries.NewListOverdueLegsQuery(t0.Add(time.Hour), 10)
	suite.Require().NoError(err)
	legs, err := queries.NewListOverdueLegsQueryHandler(suite.database.DB).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(legs, 1)
	suite.Equal(overdue.ID(), legs[0].LegID)
	suite.Equal(2, legs[0].ParcelCount)
}

func (suite *QueriesIntegrationTestSuite) storedParcel(warehouseID kernel.UUID) *parcel.Parcel {
	ctx := suite.T().Context()
	dims, err := parcel.NewDimensions(400, 300, 200)
	suite.Require().NoError(err)
	p, err := parcel.NewParcel(kernel.NewUUID(), nil, 2500, dims, "books", t0)
	suite.Require().NoError(err)
	loc, err := parcel.WarehouseLocation(warehouseID)
	suite.Require().NoError(err)
	entry, err := p.Relocate(loc, "received", t0)
	suite.Require().NoError(err)

	suite.Require().NoError(parcelrepo.NewGormParcelRepository(suite.database.DB).Add(ctx, p))
	_, err = ledgerrepo.NewGormLocationLedger(suite.database.DB).Append(ctx, entry)
	suite.Require().NoError(err)
	return p
}

func (suite *QueriesIntegrationTestSuite) assign(parcelID, warehouseID kernel.UUID) *storage.Assignment {
	a, err := storage.NewAssignment(kernel.NewUUID(), parcelID, warehouseID, "A-1", nil, "", t0)
	suite.Require().NoError(err)
	suite.Require().NoError(storagerepo.NewGormStorageRepository(suite.database.DB).Add(suite.T().Context(), a))
	return a
}

func (suite *QueriesIntegrationTestSuite) scheduleLeg(courierID *kernel.UUID, scheduledAt time.Time, parcelIDs ...kernel.UUID) *leg.Leg {
	ctx := suite.T().Context()
	l, entry, err := leg.NewLeg(
		kernel.NewUUID(), parcelIDs, courierID,
		"Warehouse dock 3", "12 Baker Street",
		scheduledAt, decimal.Zero, t0,
	)
	suite.Require().NoError(err)

	repo := legrepo.NewGormLegRepository(suite.database.DB)
	suite.Require().NoError(repo.Add(ctx, l))
	_, err = repo.AppendHistory(ctx, entry)
	suite.Require().NoError(err)
	return l
}

func (suite *QueriesIntegrationTestSuite) courier(name string, available, onDuty bool) *courier.Courier {
	c, err := courier.NewCourier(kernel.NewUUID(), name, courier.Documents{}, t0)
	suite.Require().NoError(err)
	c.SetAvailability(available)
	c.SetDuty(onDuty)
	suite.Require().NoError(courierrepo.NewGormCourierRepository(suite.database.DB).Add(suite.T().Context(), c))
	return c
}

func (suite *QueriesIntegrationTestSuite) report(c *courier.Courier, lat, lon float64) {
	point, err := kernel.NewGeoPoint(lat, lon)
	suite.Require().NoError(err)
	pos, err := courier.NewPosition(point, t0)
	suite.Require().NoError(err)
	updated, err := courierrepo.NewGormCourierRepository(suite.database.DB).UpdatePositionIfNewer(suite.T().Context(), c.ID(), pos)
	suite.Require().NoError(err)
	suite.Require().True(updated)
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesIntegrationTestSuite))
}
