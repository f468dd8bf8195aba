// Package httputil provides HTTP utilities for remote API clients.
//
// # Retry
//
// [Retry] wraps an operation with automatic retry for transient failures.
// Only errors wrapped in [RetryableError] are retried; clients wrap
// network errors, 5xx and 429 responses, and return everything else as is:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// The delay doubles after every failed attempt. [RetryWithBackoff] makes
// three attempts starting at one second.
package httputil
