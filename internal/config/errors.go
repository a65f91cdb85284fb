package config

import "errors"

var (
	errFileNotFound = errors.New("config file not found")
	errFileRead     = errors.New("could not read config file")
	errInvalid      = errors.New("invalid config")

	// ErrDataDirEmpty is returned when a config file explicitly sets
	// data_dir to the empty string.
	ErrDataDirEmpty = errors.New("data_dir must not be empty")
)
