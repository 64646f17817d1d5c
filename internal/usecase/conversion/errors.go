package conversion

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid conversion request")
	ErrSourceNotFound     = errors.New("source file not found")
	ErrConversionNotFound = errors.New("conversion not found")
)
