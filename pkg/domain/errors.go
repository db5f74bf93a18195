package domain

import "errors"

// ErrTableNotFound is returned when a table ID cannot be found in a store or registry.
var ErrTableNotFound = errors.New("table not found")

// ErrInvalidColumn is returned by engines when a column definition cannot be resolved.
var ErrInvalidColumn = errors.New("invalid column definition")

// ErrInvalidConfig is returned when a table definition cannot be decoded.
var ErrInvalidConfig = errors.New("invalid table configuration")

// ErrTableExists is returned when registering a table under a name already in use.
var ErrTableExists = errors.New("table already registered")
