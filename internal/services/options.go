package services

import (
	"errors"
	"time"

	"github.com/stwalsh4118/bma/api/internal/domain"
)

// Option configures a service.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for date rules and audit
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// mergeValidation combines validation failures into a single
// ValidationError. Any other error is returned as is.
func mergeValidation(errs ...error) error {
	merged := &domain.ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for field, msgs := range verr.Fields {
			for _, msg := range msgs {
				merged.Add(field, msg)
			}
		}
	}
	return merged.OrNil()
}
