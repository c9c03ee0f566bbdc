package commands

import (
	"context"
	"fmt"

	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/pkg/errs"
)

// AnnouncementStatusCancelled marks announcements that no longer accept parcels.
const AnnouncementStatusCancelled = "cancelled"

// CreateParcelCommandHandler registers parcels. The announcement, when given,
// must exist and must not be cancelled.
type CreateParcelCommandHandler struct {
	uowFactory    ParcelUoWFactory
	announcements ports.AnnouncementService
}

func NewCreateParcelCommandHandler(
	uowFactory ParcelUoWFactory,
	announcements ports.AnnouncementService,
) CreateParcelCommandHandler {
	return CreateParcelCommandHandler{
		uowFactory:    uowFactory,
		announcements: announcements,
	}
}

func (h CreateParcelCommandHandler) Handle(ctx context.Context, cmd CreateParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if id := cmd.AnnouncementID(); id != nil {
		announcement, err := h.announcements.GetAnnouncement(ctx, *id)
		if err != nil {
			return err
		}
		if announcement.Status == AnnouncementStatusCancelled {
			return errs.NewValueIsInvalidErrorWithCause(
				"announcement is invalid",
				fmt.Errorf("announcement %s is %s", id, announcement.Status),
			)
		}
	}

	p, err := parcel.NewParcel(
		cmd.ParcelID(), cmd.AnnouncementID(), cmd.WeightGrams(), cmd.Dimensions(), cmd.Description(), cmd.At(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ParcelRepository().Add(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
