package section

import (
	"fmt"
	"math/big"

	"github.com/arloliu/feelgood/endian"
	"github.com/arloliu/feelgood/errs"
)

// SpaceSize returns 256^width, the number of distinct byte sequences of the given width.
//
// Returns:
//   - *big.Int: the size of the enumeration space
//   - error: ErrInvalidSectionLength if width is not positive
func SpaceSize(width int) (*big.Int, error) {
	if width <= 0 {
		return nil, errs.ErrInvalidSectionLength
	}

	return new(big.Int).Lsh(big.NewInt(1), uint(width)*8), nil
}

// InRange reports whether index lies in [0, 256^width).
func InRange(index *big.Int, width int) bool {
	if index == nil || width <= 0 {
		return false
	}

	return index.Sign() >= 0 && index.BitLen() <= width*8
}

// MapIndex encodes index as a fixed-width base-256 number, most significant
// byte first, zero-padded on the high side.
//
// The mapping is a bijection from [0, 256^width) onto all byte sequences of
// length width: equal indices give equal bytes and distinct indices give
// distinct bytes. The result is a new slice of exactly width bytes.
//
// Returns:
//   - []byte: the encoded section bytes
//   - error: ErrInvalidSectionLength if width is not positive,
//     ErrIndexOutOfRange if index is nil, negative or >= 256^width
func MapIndex(index *big.Int, width int) ([]byte, error) {
	if width <= 0 {
		return nil, errs.ErrInvalidSectionLength
	}
	if !InRange(index, width) {
		return nil, fmt.Errorf("%w: index %v, width %d", errs.ErrIndexOutOfRange, index, width)
	}

	return index.FillBytes(make([]byte, width)), nil
}

// MapUint64 is MapIndex for indices that fit in a uint64.
func MapUint64(index uint64, width int) ([]byte, error) {
	if width <= 0 {
		return nil, errs.ErrInvalidSectionLength
	}
	if width < 8 && index>>(uint(width)*8) != 0 {
		return nil, fmt.Errorf("%w: index %d, width %d", errs.ErrIndexOutOfRange, index, width)
	}

	buf := make([]byte, width)
	if width >= 8 {
		endian.FormatEngine().PutUint64(buf[width-8:], index)
		return buf, nil
	}

	for i := width - 1; i >= 0; i-- {
		buf[i] = byte(index)
		index >>= 8
	}

	return buf, nil
}

// IndexOf decodes section bytes back into the index that produced them.
// It is the inverse of MapIndex for len(data) == width.
func IndexOf(data []byte) *big.Int {
	return new(big.Int).SetBytes(data)
}

// Odometer is a fixed-width base-256 register that is advanced in place.
//
// After n calls to Increment from a register set to index s, Bytes equals
// MapIndex(s+n, width). Incrementing touches only the digits that carry, so
// stepping through consecutive indices costs O(1) amortized and never
// allocates.
//
// An Odometer is not safe for concurrent use.
type Odometer struct {
	digits []byte
}

// NewOdometer creates an odometer of the given width positioned at start.
// A nil start positions the odometer at zero.
//
// Returns:
//   - *Odometer: the positioned odometer
//   - error: ErrInvalidSectionLength if width is not positive,
//     ErrIndexOutOfRange if start is outside [0, 256^width)
func NewOdometer(width int, start *big.Int) (*Odometer, error) {
	if width <= 0 {
		return nil, errs.ErrInvalidSectionLength
	}

	o := &Odometer{digits: make([]byte, width)}
	if err := o.Set(start); err != nil {
		return nil, err
	}

	return o, nil
}

// Set positions the odometer at index.
// A nil index is treated as zero.
func (o *Odometer) Set(index *big.Int) error {
	if index == nil {
		clear(o.digits)
		return nil
	}
	if !InRange(index, len(o.digits)) {
		return fmt.Errorf("%w: index %v, width %d", errs.ErrIndexOutOfRange, index, len(o.digits))
	}

	index.FillBytes(o.digits)

	return nil
}

// Increment advances the odometer by one.
//
// It returns false when the register wraps past 256^width - 1; the odometer
// then reads all zeros.
func (o *Odometer) Increment() bool {
	for i := len(o.digits) - 1; i >= 0; i-- {
		o.digits[i]++
		if o.digits[i] != 0 {
			return true
		}
	}

	return false
}

// Width returns the number of digits in the register.
func (o *Odometer) Width() int {
	return len(o.digits)
}

// Bytes returns the current digits, most significant first.
// The slice aliases the register and is only valid until the next Increment or Set.
func (o *Odometer) Bytes() []byte {
	return o.digits
}

// Index returns the current position as a new big.Int.
func (o *Odometer) Index() *big.Int {
	return IndexOf(o.digits)
}
