package cmd

import (
	httpin "parcelflow/internal/adapters/in/http"
	"parcelflow/internal/adapters/out/postgres"
	"parcelflow/internal/adapters/out/postgres/directory"
	"parcelflow/internal/adapters/out/redisadapter"
	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/application/usecases/queries"
	"parcelflow/internal/jobs"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config        Config
	gormDB        *gorm.DB
	uowFactory    *postgres.GormUnitOfWorkFactory
	locker        *redisadapter.EntityLocker
	warehouses    *directory.GormWarehouseDirectory
	announcements *directory.GormAnnouncementService
	notifier      *commands.Notifier
	logger        *zap.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient redis.UniversalClient, logger *zap.Logger) CompositionRoot {
	announcements := directory.NewGormAnnouncementService(gormDB)
	publisher := redisadapter.NewNotificationPublisher(redisClient, config.EventChannel)

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		locker: redisadapter.NewEntityLocker(
			redislock.New(redisClient), logger, redisadapter.WithLockTTL(config.LockTTL),
		),
		warehouses:    directory.NewGormWarehouseDirectory(gormDB),
		announcements: announcements,
		notifier:      commands.NewNotifier(publisher, announcements, logger),
		logger:        logger,
	}
}

func (c *CompositionRoot) parcelUoWFactory() commands.ParcelUoWFactory {
	return FuncParcelUoWFactory(func() commands.ParcelUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) storageUoWFactory() commands.StorageUoWFactory {
	return FuncStorageUoWFactory(func() commands.StorageUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) telemetryUoWFactory() commands.TelemetryUoWFactory {
	return FuncTelemetryUoWFactory(func() commands.TelemetryUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) CreateCreateParcelCommandHandler() commands.CreateParcelCommandHandler {
	return commands.NewCreateParcelCommandHandler(c.parcelUoWFactory(), c.announcements)
}

func (c *CompositionRoot) CreateRelocateParcelCommandHandler() commands.RelocateParcelCommandHandler {
	return commands.NewRelocateParcelCommandHandler(c.storageUoWFactory(), c.locker, c.warehouses)
}

func (c *CompositionRoot) CreateAllocateStorageCommandHandler() commands.AllocateStorageCommandHandler {
	return commands.NewAllocateStorageCommandHandler(c.storageUoWFactory(), c.locker, c.warehouses, c.notifier)
}

func (c *CompositionRoot) CreateReleaseStorageCommandHandler() commands.ReleaseStorageCommandHandler {
	return commands.NewReleaseStorageCommandHandler(c.storageUoWFactory())
}

func (c *CompositionRoot) CreateExpireStorageCommandHandler() commands.ExpireStorageCommandHandler {
	return commands.NewExpireStorageCommandHandler(c.storageUoWFactory())
}

func (c *CompositionRoot) CreateAssignLegCommandHandler() commands.AssignLegCommandHandler {
	return commands.NewAssignLegCommandHandler(c.deliveryUoWFactory(), c.locker, c.notifier)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.deliveryUoWFactory(), c.locker, c.notifier)
}

func (c *CompositionRoot) CreateStartLegCommandHandler() commands.StartLegCommandHandler {
	return commands.NewStartLegCommandHandler(c.deliveryUoWFactory(), c.locker, c.warehouses, c.notifier)
}

func (c *CompositionRoot) CreateCompleteLegCommandHandler() commands.CompleteLegCommandHandler {
	return commands.NewCompleteLegCommandHandler(c.deliveryUoWFactory(), c.locker, c.warehouses, c.notifier)
}

func (c *CompositionRoot) CreateCancelLegCommandHandler() commands.CancelLegCommandHandler {
	return commands.NewCancelLegCommandHandler(c.deliveryUoWFactory(), c.locker, c.warehouses, c.notifier)
}

func (c *CompositionRoot) CreateUpdateLegPaymentCommandHandler() commands.UpdateLegPaymentCommandHandler {
	return commands.NewUpdateLegPaymentCommandHandler(c.deliveryUoWFactory(), c.locker)
}

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	return commands.NewRegisterCourierCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateSetCourierAvailabilityCommandHandler() commands.SetCourierAvailabilityCommandHandler {
	return commands.NewSetCourierAvailabilityCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateRecordPositionCommandHandler() commands.RecordPositionCommandHandler {
	return commands.NewRecordPositionCommandHandler(c.telemetryUoWFactory())
}

func (c *CompositionRoot) CreateGetParcelQueryHandler() queries.GetParcelQueryHandler {
	return queries.NewGetParcelQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateParcelHistoryQueryHandler() queries.ParcelHistoryQueryHandler {
	return queries.NewParcelHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateLegHistoryQueryHandler() queries.LegHistoryQueryHandler {
	return queries.NewLegHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOverdueLegsQueryHandler() queries.ListOverdueLegsQueryHandler {
	return queries.NewListOverdueLegsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateCurrentPositionQueryHandler() queries.CurrentPositionQueryHandler {
	return queries.NewCurrentPositionQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateNearbyCouriersQueryHandler() queries.NearbyCouriersQueryHandler {
	return queries.NewNearbyCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateParcel:           c.CreateCreateParcelCommandHandler(),
		RelocateParcel:         c.CreateRelocateParcelCommandHandler(),
		AllocateStorage:        c.CreateAllocateStorageCommandHandler(),
		ReleaseStorage:         c.CreateReleaseStorageCommandHandler(),
		AssignLeg:              c.CreateAssignLegCommandHandler(),
		AssignCourier:          c.CreateAssignCourierCommandHandler(),
		StartLeg:               c.CreateStartLegCommandHandler(),
		CompleteLeg:            c.CreateCompleteLegCommandHandler(),
		CancelLeg:              c.CreateCancelLegCommandHandler(),
		UpdateLegPayment:       c.CreateUpdateLegPaymentCommandHandler(),
		RegisterCourier:        c.CreateRegisterCourierCommandHandler(),
		SetCourierAvailability: c.CreateSetCourierAvailabilityCommandHandler(),
		RecordPosition:         c.CreateRecordPositionCommandHandler(),

		GetParcel:       c.CreateGetParcelQueryHandler(),
		ParcelHistory:   c.CreateParcelHistoryQueryHandler(),
		LegHistory:      c.CreateLegHistoryQueryHandler(),
		ListOverdueLegs: c.CreateListOverdueLegsQueryHandler(),
		CurrentPosition: c.CreateCurrentPositionQueryHandler(),
		NearbyCouriers:  c.CreateNearbyCouriersQueryHandler(),
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.Schedule{
			StorageExpirySpec: c.config.StorageExpirySpec,
			ExpireBatchSize:   c.config.ExpireBatchSize,
			OverdueLegSpec:    c.config.OverdueLegSpec,
			OverdueLegGrace:   c.config.OverdueLegGrace,
		},
		c.CreateExpireStorageCommandHandler(),
		c.CreateListOverdueLegsQueryHandler(),
		c.CreateCancelLegCommandHandler(),
		c.logger,
	)
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}

type FuncStorageUoWFactory func() commands.StorageUoW

func (f FuncStorageUoWFactory) Create() commands.StorageUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncTelemetryUoWFactory func() commands.TelemetryUoW

func (f FuncTelemetryUoWFactory) Create() commands.TelemetryUoW {
	return f()
}
