package domain

import "errors"

var (
	// ErrPlacesAPIFailure is returned when a places API request fails.
	ErrPlacesAPIFailure = errors.New("places API request failed")

	// ErrInvalidPreferences is returned when preference parameters are invalid.
	ErrInvalidPreferences = errors.New("invalid preference parameters")

	// ErrDatasetNotFound is returned when the processed dataset file is missing.
	ErrDatasetNotFound = errors.New("processed dataset not found")

	// ErrCacheMiss is returned when data is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)
