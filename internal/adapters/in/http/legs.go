package http

import (
	"net/http"
	"time"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/application/usecases/queries"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

// AssignLeg handles POST /api/v1/legs.
func (s *Server) AssignLeg(c echo.Context) error {
	var req AssignLegRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	parcelIDs := make([]kernel.UUID, len(req.ParcelIDs))
	for i, raw := range req.ParcelIDs {
		id, err := parseUUID("parcel_ids", raw)
		if err != nil {
			return err
		}
		parcelIDs[i] = id
	}

	courierID, err := optionalUUID("courier_id", req.CourierID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignLegCommand(
		parcelIDs, courierID, req.Pickup, req.Dropoff, req.ScheduledAt, req.Amount, s.now(),
	)
	if err != nil {
		return err
	}

	if err = s.handlers.AssignLeg.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: cmd.LegID().String()})
}

// AssignCourier handles PUT /api/v1/legs/:id/courier. Either a courier id or
// an origin for the nearest free courier search is accepted.
func (s *Server) AssignCourier(c echo.Context) error {
	legID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req AssignCourierRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	var cmd commands.AssignCourierCommand
	if req.Origin != nil {
		origin, pointErr := kernel.NewGeoPoint(*req.Origin.Lat, *req.Origin.Lon)
		if pointErr != nil {
			return pointErr
		}
		cmd, err = commands.NewAssignNearestCourierCommand(legID, origin)
	} else {
		var courierID kernel.UUID
		if courierID, err = parseUUID("courier_id", req.CourierID); err != nil {
			return err
		}
		cmd, err = commands.NewAssignCourierCommand(legID, courierID)
	}
	if err != nil {
		return err
	}

	if err = s.handlers.AssignCourier.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// StartLeg handles POST /api/v1/legs/:id/start.
func (s *Server) StartLeg(c echo.Context) error {
	legID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req StartLegRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewStartLegCommand(legID, req.Remarks, s.now())
	if err != nil {
		return err
	}

	if err = s.handlers.StartLeg.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CompleteLeg handles POST /api/v1/legs/:id/complete.
func (s *Server) CompleteLeg(c echo.Context) error {
	legID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req CompleteLegRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	outcomes := make(map[kernel.UUID]commands.ParcelOutcome, len(req.Outcomes))
	for _, o := range req.Outcomes {
		parcelID, parseErr := parseUUID("parcel_id", o.ParcelID)
		if parseErr != nil {
			return parseErr
		}
		if _, dup := outcomes[parcelID]; dup {
			return echo.NewHTTPError(http.StatusBadRequest, "duplicate outcome for parcel "+parcelID.String())
		}

		outcome, parseErr := services.ParseOutcome(o.Outcome)
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid outcome").SetInternal(parseErr)
		}

		switch outcome {
		case services.OutcomeDelivered:
			outcomes[parcelID] = commands.Delivered()
		case services.OutcomeLost:
			outcomes[parcelID] = commands.Lost()
		case services.OutcomeRestored:
			target, targetErr := storageTarget(*o.Storage)
			if targetErr != nil {
				return targetErr
			}
			outcomes[parcelID] = commands.Restored(target)
		}
	}

	cmd, err := commands.NewCompleteLegCommand(legID, outcomes, req.Remarks, s.now())
	if err != nil {
		return err
	}

	if err = s.handlers.CompleteLeg.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CancelLeg handles POST /api/v1/legs/:id/cancel. Parcels without a restock
// target go back to the warehouse they were picked up from.
func (s *Server) CancelLeg(c echo.Context) error {
	legID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req CancelLegRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	restock := make(map[kernel.UUID]commands.StorageTarget, len(req.Restock))
	for _, r := range req.Restock {
		parcelID, parseErr := parseUUID("parcel_id", r.ParcelID)
		if parseErr != nil {
			return parseErr
		}
		target, targetErr := storageTarget(r.Storage)
		if targetErr != nil {
			return targetErr
		}
		restock[parcelID] = target
	}

	cmd, err := commands.NewCancelLegCommand(legID, req.Reason, restock, s.now())
	if err != nil {
		return err
	}

	if err = s.handlers.CancelLeg.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateLegPayment handles PUT /api/v1/legs/:id/payment.
func (s *Server) UpdateLegPayment(c echo.Context) error {
	legID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateLegPaymentRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	status, err := leg.ParsePaymentStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateLegPaymentCommand(legID, status, req.Amount)
	if err != nil {
		return err
	}

	if err = s.handlers.UpdateLegPayment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetLegHistory handles GET /api/v1/legs/:id/history.
func (s *Server) GetLegHistory(c echo.Context) error {
	legID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewLegHistoryQuery(legID)
	if err != nil {
		return err
	}

	entries, err := s.handlers.LegHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]LegHistoryEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = LegHistoryEntryResponse{
			ID:        e.ID,
			Status:    e.Status,
			Remarks:   e.Remarks,
			ChangedAt: e.ChangedAt,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// ListOverdueLegs handles GET /api/v1/legs/overdue?before=&limit=.
// Without "before" every scheduled leg due before now is listed.
func (s *Server) ListOverdueLegs(c echo.Context) error {
	cutoff := s.now()
	limit := queries.DefaultOverdueLegsLimit
	if err := echo.QueryParamsBinder(c).
		Time("before", &cutoff, time.RFC3339).
		Int("limit", &limit).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters").SetInternal(err)
	}

	query, err := queries.NewListOverdueLegsQuery(cutoff, limit)
	if err != nil {
		return err
	}

	legs, err := s.handlers.ListOverdueLegs.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]OverdueLegResponse, len(legs))
	for i, l := range legs {
		response[i] = OverdueLegResponse{
			LegID:       l.LegID.String(),
			CourierID:   uuidString(l.CourierID),
			ScheduledAt: l.ScheduledAt,
			ParcelCount: l.ParcelCount,
		}
	}
	return c.JSON(http.StatusOK, response)
}
