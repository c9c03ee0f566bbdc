package http

import (
	"net/http"
	"time"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/application/usecases/queries"
	"parcelflow/internal/core/domain/model/parcel"

	"github.com/labstack/echo/v4"
)

// CreateParcel handles POST /api/v1/parcels.
func (s *Server) CreateParcel(c echo.Context) error {
	var req CreateParcelRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	announcementID, err := optionalUUID("announcement_id", req.AnnouncementID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateParcelCommand(
		announcementID,
		req.WeightGrams, req.LengthMM, req.WidthMM, req.HeightMM,
		req.Description, s.now(),
	)
	if err != nil {
		return err
	}

	if err = s.handlers.CreateParcel.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CreatedResponse{ID: cmd.ParcelID().String()})
}

// GetParcel handles GET /api/v1/parcels/:id. The optional "at" query parameter
// (RFC 3339) evaluates storage expiry at that instant instead of now.
func (s *Server) GetParcel(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	at, err := s.queryInstant(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetParcelQuery(id, at)
	if err != nil {
		return err
	}
	return s.respondParcel(c, query)
}

// GetParcelByTrackingNumber handles GET /api/v1/parcels/tracking/:number.
func (s *Server) GetParcelByTrackingNumber(c echo.Context) error {
	at, err := s.queryInstant(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetParcelByTrackingNumberQuery(c.Param("number"), at)
	if err != nil {
		return err
	}
	return s.respondParcel(c, query)
}

func (s *Server) respondParcel(c echo.Context, query queries.GetParcelQuery) error {
	view, err := s.handlers.GetParcel.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := ParcelResponse{
		ID:             view.ID.String(),
		TrackingNumber: view.TrackingNumber,
		AnnouncementID: uuidString(view.AnnouncementID),
		WeightGrams:    view.WeightGrams,
		LengthMM:       view.LengthMM,
		WidthMM:        view.WidthMM,
		HeightMM:       view.HeightMM,
		Description:    view.Description,
		Status:         view.Status,
		Location:       locationResponse(view.Location),
		LastMovedAt:    view.LastMovedAt,
	}
	if st := view.Storage; st != nil {
		response.Storage = &StorageResponse{
			AssignmentID: st.AssignmentID.String(),
			WarehouseID:  st.WarehouseID.String(),
			Area:         st.Area,
			StoredUntil:  st.StoredUntil,
			CreatedAt:    st.CreatedAt,
		}
	}
	if l := view.ActiveLeg; l != nil {
		response.ActiveLeg = &ActiveLegResponse{
			LegID:       l.LegID.String(),
			Status:      l.Status,
			CourierID:   uuidString(l.CourierID),
			ScheduledAt: l.ScheduledAt,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// GetParcelHistory handles GET /api/v1/parcels/:id/history.
func (s *Server) GetParcelHistory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewParcelHistoryQuery(id)
	if err != nil {
		return err
	}

	entries, err := s.handlers.ParcelHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]LocationEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = LocationEntryResponse{
			ID:          e.ID,
			Location:    locationResponse(e.Location),
			Description: e.Description,
			MovedAt:     e.MovedAt,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// RelocateParcel handles POST /api/v1/parcels/:id/relocate.
func (s *Server) RelocateParcel(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req RelocateParcelRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	kind, err := parcel.ParseLocationKind(req.Kind)
	if err != nil {
		return err
	}
	ref, err := parseUUID("ref", req.Ref)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRelocateParcelCommand(id, kind, ref, req.Area, req.Description, s.now())
	if err != nil {
		return err
	}

	if err = s.handlers.RelocateParcel.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AllocateStorage handles POST /api/v1/parcels/:id/storage.
func (s *Server) AllocateStorage(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req AllocateStorageRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	warehouseID, err := parseUUID("warehouse_id", req.WarehouseID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAllocateStorageCommand(
		id, warehouseID, req.Area, req.StoredUntil, req.Description, s.now(),
	)
	if err != nil {
		return err
	}

	if err = s.handlers.AllocateStorage.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: cmd.AssignmentID().String()})
}

// ReleaseStorage handles POST /api/v1/storage/:id/release.
func (s *Server) ReleaseStorage(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewReleaseStorageCommand(id, s.now())
	if err != nil {
		return err
	}

	if err = s.handlers.ReleaseStorage.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) queryInstant(c echo.Context) (time.Time, error) {
	at := s.now()
	if err := echo.QueryParamsBinder(c).Time("at", &at, time.RFC3339).BindError(); err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid at").SetInternal(err)
	}
	return at, nil
}

func locationResponse(v queries.LocationView) LocationResponse {
	return LocationResponse{
		Kind:    v.Kind,
		Ref:     uuidString(v.Ref),
		Address: v.Address,
	}
}

func storageTarget(req StorageTargetRequest) (commands.StorageTarget, error) {
	warehouseID, err := parseUUID("warehouse_id", req.WarehouseID)
	if err != nil {
		return commands.StorageTarget{}, err
	}
	return commands.StorageTarget{
		WarehouseID: warehouseID,
		Area:        req.Area,
		StoredUntil: req.StoredUntil,
	}, nil
}
