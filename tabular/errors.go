package tabular

import "errors"

// ErrEmptyInput is returned when the uploaded payload has no bytes.
var ErrEmptyInput = errors.New("tabular: empty input")

// ErrInvalidPDF is returned when the payload does not parse as a PDF.
var ErrInvalidPDF = errors.New("tabular: not a valid PDF")

// ErrNoContent is returned when every attempted method yielded zero rows.
var ErrNoContent = errors.New("tabular: no extractable content")

// ErrUnknownMethod is returned for a method value outside the enum.
var ErrUnknownMethod = errors.New("tabular: unknown extraction method")

// ErrUnknownFormat is returned for an output format outside the enum.
var ErrUnknownFormat = errors.New("tabular: unknown output format")
