// Package storage persists rendered charts.
//
// Every backend implements [Storage]:
//
//	loc, err := s.Save(ctx, data, "unemployment", "png", nil)
//
// The format decides the file extension and content type; "jpeg" is
// normalized to "jpg" before anything else happens, so both spellings
// produce the same object name and metadata. Keys are validated with
// errors.ValidateKey and may contain "/" to form directories or prefixes.
//
// Backends:
//
//   - [Local]: a directory on disk, created on demand
//   - [Memory]: an in-process map, for tests and previews
//   - [S3]: Amazon S3 or any S3 compatible service (aws-sdk-go-v2)
//   - [GCS]: Google Cloud Storage
//   - [Azure]: Azure Blob Storage
//   - [GridFS]: MongoDB GridFS buckets
//
// Save options are a flat string map. Recognized keys are "cache-control",
// "content-disposition", "acl" and "meta-<name>" for user metadata; each
// backend forwards what it supports and ignores the rest.
package storage
