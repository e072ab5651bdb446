package evaluation

import "errors"

// Sentinel kinds for evaluation errors.
var (
	ErrDuplicateName = errors.New("name already exists")
	ErrNotFound      = errors.New("name not found")
	ErrInvalidRank   = errors.New("rank out of range")
	ErrInvalidRating = errors.New("rating outside scale")
	ErrUnknownKey    = errors.New("vendor or criterion not registered")
)
