package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrAuthFailed indicates the search API rejected the credential (401/403)
	ErrAuthFailed = errors.New("authentication token is invalid or missing")

	// ErrServerOffline indicates the remote host is unreachable
	ErrServerOffline = errors.New("remote host is unreachable")

	// ErrInvalidManifest indicates the fetched document is not valid manifest JSON
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrInvalidExport indicates an export payload is missing required fields
	ErrInvalidExport = errors.New("invalid export file")

	// ErrRepositoryNotFound indicates the requested repository key is absent
	ErrRepositoryNotFound = errors.New("repository not found")
)
