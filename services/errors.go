package services

import "errors"

// Engine error taxonomy. Callers branch on these with errors.Is; every
// storage failure that is not one of the specific conditions below is
// wrapped in ErrDependencyUnavailable so callers can retry with backoff.
var (
	// ErrDuplicateSwipe - the swiper already has a recorded swipe on this target
	ErrDuplicateSwipe = errors.New("swipe already recorded for this target")

	// ErrCandidateNotFound - the target profile does not exist
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrInvalidTarget - a user tried to swipe on themselves
	ErrInvalidTarget = errors.New("invalid swipe target")

	// ErrNothingToUndo - no undoable swipe exists for this user
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrDependencyUnavailable - profile store or ledger storage unreachable
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrItemNotFound - storage-level miss, mapped by callers to a domain error
	ErrItemNotFound = errors.New("item not found")
)
