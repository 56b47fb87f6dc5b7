package common

import "errors"

var (
	// ErrorInvalidValue is returned for malformed configuration or arguments.
	ErrorInvalidValue = errors.New("invalid value")

	// ErrorInvalidParameter is returned when distribution or grid parameters
	// cannot describe a non-degenerate bivariate normal field.
	ErrorInvalidParameter = errors.New("invalid parameter")
)
