package http

import (
	"net/http"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/application/usecases/queries"
	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

// RegisterCourier handles POST /api/v1/couriers.
func (s *Server) RegisterCourier(c echo.Context) error {
	var req RegisterCourierRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	userID, err := parseUUID("user_id", req.UserID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRegisterCourierCommand(userID, req.Name, courier.Documents{
		LicenseNumber:   req.LicenseNumber,
		InsurancePolicy: req.InsurancePolicy,
		PayoutAccount:   req.PayoutAccount,
	}, s.now())
	if err != nil {
		return err
	}

	if err = s.handlers.RegisterCourier.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: cmd.CourierID().String()})
}

// SetCourierAvailability handles PATCH /api/v1/couriers/:id/availability.
func (s *Server) SetCourierAvailability(c echo.Context) error {
	courierID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req SetCourierAvailabilityRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewSetCourierAvailabilityCommand(courierID, req.Available, req.OnDuty)
	if err != nil {
		return err
	}

	if err = s.handlers.SetCourierAvailability.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordPosition handles POST /api/v1/couriers/:id/positions.
func (s *Server) RecordPosition(c echo.Context) error {
	courierID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req RecordPositionRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	legID, err := optionalUUID("leg_id", req.LegID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRecordPositionCommand(
		courierID,
		*req.Lat, *req.Lon,
		courier.Telemetry{Accuracy: req.Accuracy, Speed: req.Speed, Heading: req.Heading},
		legID,
		req.CapturedAt, s.now(),
	)
	if err != nil {
		return err
	}

	result, err := s.handlers.RecordPosition.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, RecordPositionResponse{
		SampleID:      result.SampleID,
		LegID:         uuidString(result.LegID),
		PositionMoved: result.PositionMoved,
	})
}

// GetCurrentPosition handles GET /api/v1/couriers/:id/position.
func (s *Server) GetCurrentPosition(c echo.Context) error {
	courierID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewCurrentPositionQuery(courierID)
	if err != nil {
		return err
	}

	pos, err := s.handlers.CurrentPosition.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PositionResponse{
		CourierID:  pos.CourierID.String(),
		Lat:        pos.Lat,
		Lon:        pos.Lon,
		CapturedAt: pos.CapturedAt,
	})
}

// GetNearbyCouriers handles
// GET /api/v1/couriers/nearby?lat=&lon=&radius_km=&available_only=&on_duty_only=.
// radius_km defaults to the maximum search radius.
func (s *Server) GetNearbyCouriers(c echo.Context) error {
	var (
		lat, lon float64
		filter   services.NearbyFilter
	)
	radiusKm := services.MaxSearchRadiusKm
	if err := echo.QueryParamsBinder(c).
		MustFloat64("lat", &lat).
		MustFloat64("lon", &lon).
		Float64("radius_km", &radiusKm).
		Bool("available_only", &filter.AvailableOnly).
		Bool("on_duty_only", &filter.OnDutyOnly).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters").SetInternal(err)
	}

	query, err := queries.NewNearbyCouriersQuery(lat, lon, radiusKm, filter)
	if err != nil {
		return err
	}

	found, err := s.handlers.NearbyCouriers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]NearbyCourierResponse, len(found))
	for i, n := range found {
		response[i] = NearbyCourierResponse{
			PositionResponse: PositionResponse{
				CourierID:  n.CourierID.String(),
				Lat:        n.Lat,
				Lon:        n.Lon,
				CapturedAt: n.CapturedAt,
			},
			Name:       n.Name,
			Available:  n.Available,
			OnDuty:     n.OnDuty,
			DistanceKm: n.DistanceKm,
		}
	}
	return c.JSON(http.StatusOK, response)
}
