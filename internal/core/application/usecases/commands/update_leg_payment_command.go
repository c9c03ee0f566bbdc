package commands

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrUpdateLegPaymentCommandIsNotConstructed = errors.New(
	"UpdateLegPaymentCommand must be created via NewUpdateLegPaymentCommand constructor",
)

// UpdateLegPaymentCommand stores the payment state reported by the payment service.
type UpdateLegPaymentCommand struct { //nolint:recvcheck //using for validation
	legID  kernel.UUID
	status leg.PaymentStatus
	amount decimal.Decimal

	guard guard.ConstructorGuard
}

func NewUpdateLegPaymentCommand(legID kernel.UUID, status leg.PaymentStatus, amount decimal.Decimal) (UpdateLegPaymentCommand, error) {
	if err := errors.Join(legID.Validate(), status.Validate()); err != nil {
		return UpdateLegPaymentCommand{}, err
	}

	return UpdateLegPaymentCommand{
		legID:  legID,
		status: status,
		amount: amount,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateLegPaymentCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLegPaymentCommandIsNotConstructed)
}

func (c UpdateLegPaymentCommand) LegID() kernel.UUID        { return c.legID }
func (c UpdateLegPaymentCommand) Status() leg.PaymentStatus { return c.status }
func (c UpdateLegPaymentCommand) Amount() decimal.Decimal   { return c.amount }
