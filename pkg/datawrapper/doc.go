// Package datawrapper is a minimal client for the Datawrapper chart API
// (https://developer.datawrapper.de/reference).
//
// It covers the three calls needed to produce an image: create a chart from
// a chart object, upload its data as CSV and export a rendered file.
// Requests carry a bearer token, usually taken from DATAWRAPPER_API_KEY.
// Transient failures (network errors, 5xx responses) are retried with
// [httputil.RetryWithBackoff].
package datawrapper
