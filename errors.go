package kuoro

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when an allocator cannot be
	// constructed: non-positive voice count, nil factory, or a factory that
	// fails to produce a voice.
	ErrInvalidConfiguration = errors.New("invalid allocator configuration")

	// ErrInvalidArgument is returned when a caller passes out-of-domain
	// values, e.g. negative note timing.
	ErrInvalidArgument = errors.New("invalid argument")
)

func errInvalidConfigurationf(format string, args ...any) error {
	return fmt.Errorf("%w: %v", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

func errInvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %v", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
