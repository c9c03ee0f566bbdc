package commands

import (
	"errors"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var (
	ErrRegisterCourierCommandIsNotConstructed = errors.New(
		"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
	)
	ErrNameIsRequired = errors.New("name is required")
)

// RegisterCourierCommand represents a request to register a user as a courier.
// The courier shares its id with the user account.
//
// Example:
//
//	cmd, err := NewRegisterCourierCommand(userID, "John Doe", courier.Documents{LicenseNumber: "B-77"}, time.Now())
//	if err != nil {
//	    return fmt.Errorf("invalid courier data: %w", err)
//	}
//
//	handler := NewRegisterCourierCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to register courier: %w", err)
//	}
type RegisterCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string
	documents courier.Documents
	at        time.Time

	guard guard.ConstructorGuard
}

// NewRegisterCourierCommand validates that the id is set and the name is not empty.
func NewRegisterCourierCommand(userID kernel.UUID, name string, documents courier.Documents, at time.Time) (RegisterCourierCommand, error) {
	command := RegisterCourierCommand{
		documents: documents,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(userID),
		command.setName(name),
		command.setAt(at),
	); err != nil {
		return RegisterCourierCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRegisterCourierCommandIsNotConstructed if validation fails.
func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

func (c RegisterCourierCommand) CourierID() kernel.UUID       { return c.courierID }
func (c RegisterCourierCommand) Name() string                 { return c.name }
func (c RegisterCourierCommand) Documents() courier.Documents { return c.documents }
func (c RegisterCourierCommand) At() time.Time                { return c.at }

func (c *RegisterCourierCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.courierID = id
	return nil
}

func (c *RegisterCourierCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *RegisterCourierCommand) setAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("at")
	}

	c.at = at
	return nil
}
