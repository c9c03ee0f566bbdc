package courierrepo_test

import (
	"context"
	"testing"
	"time"

	"parcelflow/internal/adapters/out/postgres/courierrepo"
	"parcelflow/internal/adapters/out/postgres/pgtest"
	"parcelflow/internal/adapters/out/postgres/positionrepo"
	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

var t0 = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

// CourierRepositoryIntegrationTestSuite provides integration tests for the
// courier repository and the position ledger using a PostgreSQL container.
type CourierRepositoryIntegrationTestSuite struct {
	suite.Suite
	database          *pgtest.Database
	courierRepository *courierrepo.GormCourierRepository
	positionLedger    *positionrepo.GormPositionLedger
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.courierRepository = courierrepo.NewGormCourierRepository(suite.database.DB)
	suite.positionLedger = positionrepo.NewGormPositionLedger(suite.database.DB)
}

func (suite *CourierRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_ValidCourier_Success() {
	ctx := suite.T().Context()
	c := suite.createTestCourier("Alice")

	suite.Require().NoError(suite.courierRepository.Add(ctx, c))

	stored, err := suite.courierRepository.Get(ctx, c.ID())
	suite.Require().NoError(err)
	suite.Equal("Alice", stored.Name())
	suite.True(stored.IsAvailable())
	suite.False(stored.IsOnDuty())
	suite.Equal("B-77", stored.Documents().LicenseNumber)

	_, hasPosition := stored.Position()
	suite.False(hasPosition)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_DuplicateID_ConcurrentModification() {
	ctx := suite.T().Context()
	c := suite.createTestCourier("Alice")
	suite.Require().NoError(suite.courierRepository.Add(ctx, c))

	err := suite.courierRepository.Add(ctx, c)
	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.courierRepository.Get(suite.T().Context(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_KeepsCachedPosition() {
	ctx := suite.T().Context()
	c := suite.createTestCourier("Alice")
	suite.Require().NoError(suite.courierRepository.Add(ctx, c))

	updated, err := suite.courierRepository.UpdatePositionIfNewer(ctx, c.ID(), suite.position(52.52, 13.40, t0))
	suite.Require().NoError(err)
	suite.Require().True(updated)

	// c still holds no position in memory
	c.SetDuty(true)
	c.SetAvailability(false)
	suite.Require().NoError(suite.courierRepository.Update(ctx, c))

	stored, err := suite.courierRepository.Get(ctx, c.ID())
	suite.Require().NoError(err)
	suite.True(stored.IsOnDuty())
	suite.False(stored.IsAvailable())

	pos, ok := stored.Position()
	suite.Require().True(ok)
	suite.InDelta(52.52, pos.Point().Lat(), 1e-9)
	suite.True(pos.CapturedAt().Equal(t0))
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_NotFound() {
	err := suite.courierRepository.Update(suite.T().Context(), suite.createTestCourier("Ghost"))
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdatePositionIfNewer_IgnoresOlderAndEqualSamples() {
	ctx := suite.T().Context()
	c := suite.createTestCourier("Alice")
	suite.Require().NoError(suite.courierRepository.Add(ctx, c))

	testCases := []struct {
		name       string
		lat        float64
		capturedAt time.Time
		updated    bool
	}{
		{name: "first", lat: 52.50, capturedAt: t0.Add(5 * time.Minute), updated: true},
		{name: "older", lat: 52.40, capturedAt: t0, updated: false},
		{name: "equal", lat: 52.45, capturedAt: t0.Add(5 * time.Minute), updated: false},
		{name: "newer", lat: 52.60, capturedAt: t0.Add(6 * time.Minute), updated: true},
	}

	for _, tc := range testCases {
		updated, err := suite.courierRepository.UpdatePositionIfNewer(ctx, c.ID(), suite.position(tc.lat, 13.40, tc.capturedAt))
		suite.Require().NoError(err, tc.name)
		suite.Equal(tc.updated, updated, tc.name)
	}

	stored, err := suite.courierRepository.Get(ctx, c.ID())
	suite.Require().NoError(err)
	pos, _ := stored.Position()
	suite.InDelta(52.60, pos.Point().Lat(), 1e-9)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdatePositionIfNewer_UnknownCourier() {
	_, err := suite.courierRepository.UpdatePositionIfNewer(
		suite.T().Context(), kernel.NewUUID(), suite.position(52.5, 13.4, t0),
	)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestFindInBox_OnlyPositionedCouriersInside() {
	ctx := suite.T().Context()
	inside := suite.createTestCourier("Inside")
	outside := suite.createTestCourier("Outside")
	silent := suite.createTestCourier("Silent")
	for _, c := range []*courier.Courier{inside, outside, silent} {
		suite.Require().NoError(suite.courierRepository.Add(ctx, c))
	}

	_, err := suite.courierRepository.UpdatePositionIfNewer(ctx, inside.ID(), suite.position(52.52, 13.40, t0))
	suite.Require().NoError(err)
	_, err = suite.courierRepository.UpdatePositionIfNewer(ctx, outside.ID(), suite.position(48.13, 11.58, t0))
	suite.Require().NoError(err)

	found, err := suite.courierRepository.FindInBox(ctx, 52.0, 53.0, 13.0, 14.0)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(inside.ID(), found[0].ID())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestPositionLedger_KeepsLateSamples() {
	ctx := suite.T().Context()
	c := suite.createTestCourier("Alice")
	suite.Require().NoError(suite.courierRepository.Add(ctx, c))

	legID := kernel.NewUUID()
	speed := 4.2
	newer := suite.sample(c.ID(), &legID, t0.Add(time.Minute), courier.Telemetry{Speed: &speed})
	older := suite.sample(c.ID(), nil, t0, courier.Telemetry{})

	_, err := suite.positionLedger.Append(ctx, newer)
	suite.Require().NoError(err)
	id, err := suite.positionLedger.Append(ctx, older)
	suite.Require().NoError(err)
	suite.Positive(id)

	samples, err := suite.positionLedger.Samples(ctx, c.ID())
	suite.Require().NoError(err)
	suite.Require().Len(samples, 2)
	suite.True(samples[0].CapturedAt().Equal(t0))
	suite.Nil(samples[0].LegID())
	suite.Require().NotNil(samples[1].LegID())
	suite.Equal(legID, *samples[1].LegID())
	suite.InDelta(4.2, *samples[1].Telemetry().Speed, 1e-9)
}

func (suite *CourierRepositoryIntegrationTestSuite) createTestCourier(name string) *courier.Courier {
	c, err := courier.NewCourier(kernel.NewUUID(), name, courier.Documents{LicenseNumber: "B-77"}, t0)
	suite.Require().NoError(err)
	return c
}

func (suite *CourierRepositoryIntegrationTestSuite) position(lat, lon float64, capturedAt time.Time) courier.Position {
	point, err := kernel.NewGeoPoint(lat, lon)
	suite.Require().NoError(err)
	pos, err := courier.NewPosition(point, capturedAt)
	suite.Require().NoError(err)
	return pos
}

func (suite *CourierRepositoryIntegrationTestSuite) sample(
	courierID kernel.UUID,
	legID *kernel.UUID,
	capturedAt time.Time,
	telemetry courier.Telemetry,
) courier.PositionSample {
	point, err := kernel.NewGeoPoint(52.52, 13.40)
	suite.Require().NoError(err)
	s, err := courier.NewPositionSample(courierID, legID, point, telemetry, capturedAt, capturedAt.Add(time.Second))
	suite.Require().NoError(err)
	return s
}

func TestCourierRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CourierRepositoryIntegrationTestSuite))
}
