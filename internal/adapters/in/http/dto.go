package http

import (
	"time"

	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type CreateParcelRequest struct {
	AnnouncementID string `json:"announcement_id" validate:"omitempty,uuid"`
	WeightGrams    int    `json:"weight_grams" validate:"gt=0"`
	LengthMM       int    `json:"length_mm" validate:"gt=0"`
	WidthMM        int    `json:"width_mm" validate:"gt=0"`
	HeightMM       int    `json:"height_mm" validate:"gt=0"`
	Description    string `json:"description" validate:"max=1024"`
}

type StorageTargetRequest struct {
	WarehouseID string     `json:"warehouse_id" validate:"required,uuid"`
	Area        string     `json:"area" validate:"required,max=64"`
	StoredUntil *time.Time `json:"stored_until"`
}

type AllocateStorageRequest struct {
	StorageTargetRequest
	Description string `json:"description" validate:"max=1024"`
}

type RelocateParcelRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=warehouse storage_box"`
	Ref         string `json:"ref" validate:"required,uuid"`
	Area        string `json:"area" validate:"required_if=Kind warehouse,max=64"`
	Description string `json:"description" validate:"max=1024"`
}

type AssignLegRequest struct {
	ParcelIDs   []string        `json:"parcel_ids" validate:"required,min=1,dive,uuid"`
	CourierID   string          `json:"courier_id" validate:"omitempty,uuid"`
	Pickup      string          `json:"pickup" validate:"max=512"`
	Dropoff     string          `json:"dropoff" validate:"max=512"`
	ScheduledAt time.Time       `json:"scheduled_at" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

type PointRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

// AssignCourierRequest names the courier directly or asks for the nearest
// free one around Origin.
type AssignCourierRequest struct {
	CourierID string        `json:"courier_id" validate:"omitempty,uuid,excluded_with=Origin"`
	Origin    *PointRequest `json:"origin" validate:"required_without=CourierID"`
}

type StartLegRequest struct {
	Remarks string `json:"remarks" validate:"max=1024"`
}

type ParcelOutcomeRequest struct {
	ParcelID string                `json:"parcel_id" validate:"required,uuid"`
	Outcome  string                `json:"outcome" validate:"required,oneof=delivered lost restored"`
	Storage  *StorageTargetRequest `json:"storage" validate:"required_if=Outcome restored"`
}

type CompleteLegRequest struct {
	Outcomes []ParcelOutcomeRequest `json:"outcomes" validate:"required,min=1,dive"`
	Remarks  string                 `json:"remarks" validate:"max=1024"`
}

type RestockRequest struct {
	ParcelID string               `json:"parcel_id" validate:"required,uuid"`
	Storage  StorageTargetRequest `json:"storage"`
}

type CancelLegRequest struct {
	Reason  string           `json:"reason" validate:"max=1024"`
	Restock []RestockRequest `json:"restock" validate:"dive"`
}

type UpdateLegPaymentRequest struct {
	Status string          `json:"status" validate:"required,oneof=unpaid pending paid"`
	Amount decimal.Decimal `json:"amount"`
}

type RegisterCourierRequest struct {
	UserID          string `json:"user_id" validate:"required,uuid"`
	Name            string `json:"name" validate:"required,max=255"`
	LicenseNumber   string `json:"license_number" validate:"max=64"`
	InsurancePolicy string `json:"insurance_policy" validate:"max=64"`
	PayoutAccount   string `json:"payout_account" validate:"max=64"`
}

type SetCourierAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required_without=OnDuty"`
	OnDuty    *bool `json:"on_duty" validate:"required_without=Available"`
}

type RecordPositionRequest struct {
	PointRequest
	Accuracy   *float64  `json:"accuracy" validate:"omitempty,gte=0"`
	Speed      *float64  `json:"speed" validate:"omitempty,gte=0"`
	Heading    *float64  `json:"heading" validate:"omitempty,gte=0,lt=360"`
	LegID      string    `json:"leg_id" validate:"omitempty,uuid"`
	CapturedAt time.Time `json:"captured_at" validate:"required"`
}

type RecordPositionResponse struct {
	SampleID      int64   `json:"sample_id"`
	LegID         *string `json:"leg_id,omitempty"`
	PositionMoved bool    `json:"position_moved"`
}

type LocationResponse struct {
	Kind    string  `json:"kind"`
	Ref     *string `json:"ref,omitempty"`
	Address string  `json:"address,omitempty"`
}

type StorageResponse struct {
	AssignmentID string     `json:"assignment_id"`
	WarehouseID  string     `json:"warehouse_id"`
	Area         string     `json:"area"`
	StoredUntil  *time.Time `json:"stored_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type ActiveLegResponse struct {
	LegID       string    `json:"leg_id"`
	Status      string    `json:"status"`
	CourierID   *string   `json:"courier_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

type ParcelResponse struct {
	ID             string             `json:"id"`
	TrackingNumber string             `json:"tracking_number"`
	AnnouncementID *string            `json:"announcement_id,omitempty"`
	WeightGrams    int                `json:"weight_grams"`
	LengthMM       int                `json:"length_mm"`
	WidthMM        int                `json:"width_mm"`
	HeightMM       int                `json:"height_mm"`
	Description    string             `json:"description,omitempty"`
	Status         string             `json:"status"`
	Location       LocationResponse   `json:"location"`
	LastMovedAt    *time.Time         `json:"last_moved_at,omitempty"`
	Storage        *StorageResponse   `json:"storage,omitempty"`
	ActiveLeg      *ActiveLegResponse `json:"active_leg,omitempty"`
}

type LocationEntryResponse struct {
	ID          int64            `json:"id"`
	Location    LocationResponse `json:"location"`
	Description string           `json:"description,omitempty"`
	MovedAt     time.Time        `json:"moved_at"`
}

type LegHistoryEntryResponse struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	Remarks   string    `json:"remarks,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

type OverdueLegResponse struct {
	LegID       string    `json:"leg_id"`
	CourierID   *string   `json:"courier_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	ParcelCount int       `json:"parcel_count"`
}

type PositionResponse struct {
	CourierID  string    `json:"courier_id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	CapturedAt time.Time `json:"captured_at"`
}

type NearbyCourierResponse struct {
	PositionResponse
	Name       string  `json:"name"`
	Available  bool    `json:"available"`
	OnDuty     bool    `json:"on_duty"`
	DistanceKm float64 `json:"distance_km"`
}
