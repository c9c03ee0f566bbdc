package http

import (
	"net/http"
	"time"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/application/usecases/queries"
	"parcelflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	// Command handlers
	CreateParcel           commands.CreateParcelCommandHandler
	RelocateParcel         commands.RelocateParcelCommandHandler
	AllocateStorage        commands.AllocateStorageCommandHandler
	ReleaseStorage         commands.ReleaseStorageCommandHandler
	AssignLeg              commands.AssignLegCommandHandler
	AssignCourier          commands.AssignCourierCommandHandler
	StartLeg               commands.StartLegCommandHandler
	CompleteLeg            commands.CompleteLegCommandHandler
	CancelLeg              commands.CancelLegCommandHandler
	UpdateLegPayment       commands.UpdateLegPaymentCommandHandler
	RegisterCourier        commands.RegisterCourierCommandHandler
	SetCourierAvailability commands.SetCourierAvailabilityCommandHandler
	RecordPosition         commands.RecordPositionCommandHandler

	// Query handlers
	GetParcel       queries.GetParcelQueryHandler
	ParcelHistory   queries.ParcelHistoryQueryHandler
	LegHistory      queries.LegHistoryQueryHandler
	ListOverdueLegs queries.ListOverdueLegsQueryHandler
	CurrentPosition queries.CurrentPositionQueryHandler
	NearbyCouriers  queries.NearbyCouriersQueryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	now      func() time.Time
}

func NewServer(handlers Handlers) *Server {
	return &Server{
		handlers: handlers,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewEcho builds an echo instance with request validation, error rendering
// and panic recovery configured.
func NewEcho(logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	return e
}

// Register mounts every route under /api/v1.
func (s *Server) Register(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/parcels", s.CreateParcel)
	api.GET("/parcels/tracking/:number", s.GetParcelByTrackingNumber)
	api.GET("/parcels/:id", s.GetParcel)
	api.GET("/parcels/:id/history", s.GetParcelHistory)
	api.POST("/parcels/:id/relocate", s.RelocateParcel)
	api.POST("/parcels/:id/storage", s.AllocateStorage)
	api.POST("/storage/:id/release", s.ReleaseStorage)

	api.POST("/legs", s.AssignLeg)
	api.GET("/legs/overdue", s.ListOverdueLegs)
	api.GET("/legs/:id/history", s.GetLegHistory)
	api.PUT("/legs/:id/courier", s.AssignCourier)
	api.POST("/legs/:id/start", s.StartLeg)
	api.POST("/legs/:id/complete", s.CompleteLeg)
	api.POST("/legs/:id/cancel", s.CancelLeg)
	api.PUT("/legs/:id/payment", s.UpdateLegPayment)

	api.POST("/couriers", s.RegisterCourier)
	api.GET("/couriers/nearby", s.GetNearbyCouriers)
	api.PATCH("/couriers/:id/availability", s.SetCourierAvailability)
	api.POST("/couriers/:id/positions", s.RecordPosition)
	api.GET("/couriers/:id/position", s.GetCurrentPosition)
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	return parseUUID(name, c.Param(name))
}

func parseUUID(field, s string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(s)
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+field).SetInternal(err)
	}
	return id, nil
}

// optionalUUID is parseUUID where "" means absent.
func optionalUUID(field, s string) (*kernel.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseUUID(field, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func uuidString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
