package pricing

import (
	"errors"
	"fmt"
)

// ErrUnknownItem matches any *UnknownItemError via errors.Is.
var ErrUnknownItem = errors.New("unknown item")

// UnknownItemError is returned when an item code has no pricing rule.
type UnknownItemError struct {
	Code string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("invalid item code: %s", e.Code)
}

// Is makes errors.Is(err, ErrUnknownItem) true for any UnknownItemError.
func (e *UnknownItemError) Is(target error) bool {
	return target == ErrUnknownItem
}
