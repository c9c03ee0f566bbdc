package directory_test

import (
	"context"
	"testing"

	"parcelflow/internal/adapters/out/postgres/directory"
	"parcelflow/internal/adapters/out/postgres/pgtest"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type DirectoryIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
}

func (suite *DirectoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *DirectoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *DirectoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *DirectoryIntegrationTestSuite) TestWarehouseDirectory_GetCapacity() {
	ctx := suite.T().Context()
	id := kernel.NewUUID()
	suite.Require().NoError(suite.database.DB.Create(&directory.WarehouseDTO{
		ID: id.Bytes(), Name: "North", Capacity: 40,
	}).Error)

	warehouses := directory.NewGormWarehouseDirectory(suite.database.DB)

	capacity, err := warehouses.GetCapacity(ctx, id)
	suite.Require().NoError(err)
	suite.Equal(40, capacity)

	_, err = warehouses.GetCapacity(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DirectoryIntegrationTestSuite) TestAnnouncementService_GetAnnouncement() {
	ctx := suite.T().Context()
	id, ownerID := kernel.NewUUID(), kernel.NewUUID()
	suite.Require().NoError(suite.database.DB.Create(&directory.AnnouncementDTO{
		ID: id.Bytes(), OwnerID: ownerID.Bytes(), Status: "published",
	}).Error)

	announcements := directory.NewGormAnnouncementService(suite.database.DB)

	announcement, err := announcements.GetAnnouncement(ctx, id)
	suite.Require().NoError(err)
	suite.Equal(id, announcement.ID)
	suite.Equal(ownerID, announcement.OwnerID)
	suite.Equal("published", announcement.Status)

	_, err = announcements.GetAnnouncement(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestDirectoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DirectoryIntegrationTestSuite))
}
