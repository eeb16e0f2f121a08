package config

import "errors"

var (
	// ErrConfigIO matches any failure to reach config storage.
	ErrConfigIO = errors.New("config storage unavailable")

	// ErrConfigParse matches a config file that exists but violates the schema.
	ErrConfigParse = errors.New("config file malformed")
)

// IOError reports a read, write or lookup failure on the config location.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return "config " + e.Op + ": " + e.Err.Error()
	}
	return "config " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrConfigIO }

// ParseError reports persisted data that cannot be used. The file is left
// untouched.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "parse config " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrConfigParse }
