package commands

import (
	"errors"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrCreateParcelCommandIsNotConstructed = errors.New(
	"CreateParcelCommand must be created via NewCreateParcelCommand constructor",
)

// CreateParcelCommand registers a physical parcel, optionally attached to an announcement.
//
// Example:
//
//	cmd, err := NewCreateParcelCommand(&announcementID, 2500, 400, 300, 200, "books", time.Now())
//	if err != nil {
//	    return fmt.Errorf("invalid parcel data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
//	fmt.Printf("Created parcel with ID: %s", cmd.ParcelID())
type CreateParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID       kernel.UUID
	announcementID *kernel.UUID
	weightGrams    int
	dimensions     parcel.Dimensions
	description    string
	at             time.Time

	guard guard.ConstructorGuard
}

// NewCreateParcelCommand generates the parcel id and validates the physical attributes.
func NewCreateParcelCommand(
	announcementID *kernel.UUID,
	weightGrams, lengthMM, widthMM, heightMM int,
	description string,
	at time.Time,
) (CreateParcelCommand, error) {
	command := CreateParcelCommand{
		parcelID:    kernel.NewUUID(),
		weightGrams: weightGrams,
		description: strings.TrimSpace(description),
		guard:       guard.NewConstructorGuard(),
	}

	dims, dimsErr := parcel.NewDimensions(lengthMM, widthMM, heightMM)

	var atErr error
	if at.IsZero() {
		atErr = errs.NewValueIsRequiredError("at")
	}

	var announcementErr error
	if announcementID != nil {
		announcementErr = announcementID.Validate()
		id := *announcementID
		command.announcementID = &id
	}

	if err := errors.Join(dimsErr, atErr, announcementErr); err != nil {
		return CreateParcelCommand{}, err
	}

	command.dimensions = dims
	command.at = at
	return command, nil
}

func (c CreateParcelCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelCommandIsNotConstructed)
}

func (c CreateParcelCommand) ParcelID() kernel.UUID         { return c.parcelID }
func (c CreateParcelCommand) AnnouncementID() *kernel.UUID  { return c.announcementID }
func (c CreateParcelCommand) WeightGrams() int              { return c.weightGrams }
func (c CreateParcelCommand) Dimensions() parcel.Dimensions { return c.dimensions }
func (c CreateParcelCommand) Description() string           { return c.description }
func (c CreateParcelCommand) At() time.Time                 { return c.at }
