package cache

import (
	"context"
	stderrors "errors"

	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/httputil"
)

// backendErr classifies a backend failure. Timeouts are retryable network
// errors; anything else is internal.
func backendErr(err error, op, key string) error {
	if err == nil {
		return nil
	}
	var netErr interface{ Timeout() bool }
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "cache %s %s", op, key)}
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "cache %s %s", op, key)
}
