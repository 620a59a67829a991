// Package store provides the concrete implementations of the core storage
// contracts: Postgres and an in-memory TableStore, MinIO and an in-memory
// BlobStore.
package store

import "errors"

// Sentinel errors for the remote store. Callers distinguish failure classes
// with errors.Is; the concrete cause is carried in the wrapping message.
var (
	ErrRemoteRead    = errors.New("remote read failed")
	ErrRemoteWrite   = errors.New("remote write failed")
	ErrDuplicateName = errors.New("duplicate name rejected")
)
