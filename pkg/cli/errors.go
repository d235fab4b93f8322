package cli

import (
	"errors"
	"syscall"
)

// Common CLI errors
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigExists   = errors.New("config file already exists")
	ErrInvalidConfig  = errors.New("config is invalid")
)

// isAddrInUseError reports whether err comes from binding a port that is
// already taken.
func isAddrInUseError(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}
