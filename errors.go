package gatt

import "github.com/pkg/errors"

// wrapf is a thin call-site wrapper around errors.Wrapf, kept as
// a single indirection point so every transport failure in this
// package is annotated the same way.
func wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
