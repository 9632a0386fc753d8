package usecases

import "errors"

var (
	ErrInvalidCoordinates  = errors.New("coordinates must be finite and within latitude [-90, 90] and longitude [-180, 180]")
	ErrOutsideRegion       = errors.New("point is outside the configured region")
	ErrEmptyQuery          = errors.New("search query must not be empty")
	ErrQueryTooLong        = errors.New("search query exceeds 200 characters")
	ErrNoResult            = errors.New("no place found")
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	ErrBatchEmpty          = errors.New("batch must contain at least one point")
	ErrBatchTooLarge       = errors.New("batch exceeds the maximum number of points")
	ErrBatchUnavailable    = errors.New("batch geocoding is not available")
)

// maxQueryLen is the longest accepted forward-geocoding query, in characters.
const maxQueryLen = 200
