package panel

import "errors"

// Sentinel kinds for panel errors.
var (
	ErrUnknownProduct = errors.New("unknown product id")
)
