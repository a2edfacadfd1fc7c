package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors at the boundary.
//
// These represent factual states about resources, not validation failures:
//   - ErrNotFound: key does not exist in the store. A consumed authorization
//     code, an expired one, and one that never existed are indistinguishable
//     here; callers must not rely on the distinction.
//   - ErrExpired: record exists but its TTL has elapsed
//   - ErrAlreadyUsed: identifier already taken (unique constraint conflicts)
//   - ErrUnavailable: backing store unreachable or timed out
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("expired")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
