package parcel

import (
	"errors"
	"fmt"

	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrDimensionsIsNotConstructed = errors.New("Dimensions must be created via NewDimensions constructor")

// Dimensions are the outer measurements of a parcel in millimetres.
type Dimensions struct { //nolint:recvcheck //using for validation
	lengthMM int
	widthMM  int
	heightMM int
	guard    guard.ConstructorGuard
}

func NewDimensions(lengthMM, widthMM, heightMM int) (Dimensions, error) {
	d := Dimensions{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		d.set(&d.lengthMM, "length", lengthMM),
		d.set(&d.widthMM, "width", widthMM),
		d.set(&d.heightMM, "height", heightMM),
	); err != nil {
		return Dimensions{}, err
	}

	return d, nil
}

func (d Dimensions) Validate() error {
	return d.guard.Validate(ErrDimensionsIsNotConstructed)
}

func (d Dimensions) LengthMM() int { return d.lengthMM }
func (d Dimensions) WidthMM() int  { return d.widthMM }
func (d Dimensions) HeightMM() int { return d.heightMM }

// VolumeMM3 is the bounding-box volume.
func (d Dimensions) VolumeMM3() int64 {
	return int64(d.lengthMM) * int64(d.widthMM) * int64(d.heightMM)
}

func (d *Dimensions) set(field *int, name string, value int) error {
	if value <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(name+" is invalid", fmt.Errorf("%d is not greater than 0", value))
	}
	*field = value
	return nil
}
