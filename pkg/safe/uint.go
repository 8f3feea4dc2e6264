// Package safe provides overflow-checked conversions and arithmetic for amounts and sizes.
package safe

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is wrapped by every failed conversion or operation.
var ErrOutOfRange = errors.New("out of range")

type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Uint64 converts v, rejecting negative values.
func Uint64[T Integer](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d: %w of uint64", v, ErrOutOfRange)
	}
	return uint64(v), nil
}

// AddUint64 returns a+b or an error when the sum overflows.
func AddUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, fmt.Errorf("sum %d + %d: %w of uint64", a, b, ErrOutOfRange)
	}
	return a + b, nil
}

// SubUint64 returns a-b or an error when b exceeds a.
func SubUint64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, fmt.Errorf("difference %d - %d: %w of uint64", a, b, ErrOutOfRange)
	}
	return a - b, nil
}
