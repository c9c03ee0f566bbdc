package leg

import (
	"fmt"

	"parcelflow/internal/pkg/errs"
)

// PaymentStatus is stored as reported by the payment service; the engine does
// not settle anything itself.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentUnpaid
	PaymentPending
	PaymentPaid
)

var paymentNames = map[PaymentStatus]string{
	PaymentUnpaid:  "unpaid",
	PaymentPending: "pending",
	PaymentPaid:    "paid",
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, name := range paymentNames {
		if name == s {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause("payment status is invalid", fmt.Errorf("unknown status %q", s))
}

func (s PaymentStatus) Validate() error {
	if _, ok := paymentNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment status is invalid", fmt.Errorf("unknown status %d", int(s)))
	}
	return nil
}

func (s PaymentStatus) String() string {
	if name, ok := paymentNames[s]; ok {
		return name
	}
	return "unknown"
}
