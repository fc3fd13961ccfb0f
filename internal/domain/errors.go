package domain

import "errors"

var (
	// ErrInvalidPosition is returned for a position index outside [0,4].
	ErrInvalidPosition = errors.New("position index out of range")
	// ErrAnswerCount is returned when the number of submitted answers does
	// not match the question set.
	ErrAnswerCount = errors.New("answer count does not match question count")
	// ErrInvalidAnswer is returned when a selected option does not belong
	// to its question.
	ErrInvalidAnswer = errors.New("selected answer not among question options")
	// ErrInvalidToken is returned for unknown or expired access tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrResultUnavailable wraps persistence failures so callers can
	// distinguish "store is down" from "user has no result yet".
	ErrResultUnavailable = errors.New("quiz results unavailable")
)
