package models

import "errors"

var (
	// ErrInvalidArgument reports a bad segment count or missing input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrFileNotFound reports a missing input file.
	ErrFileNotFound = errors.New("file not found")
	// ErrIO reports a failed read or write of the input file or an artifact.
	ErrIO = errors.New("io error")
	// ErrInvariantViolation reports segment ranges that do not tile the file.
	ErrInvariantViolation = errors.New("internal invariant violation")
)
