package pathopt

// FailureKind enumerates the terminal failure taxonomy from spec.md §7. All
// are terminal: solve never retries internally.
type FailureKind string

const (
	FailureEmptyReference     FailureKind = "empty_reference"
	FailureHeadingMismatchStart FailureKind = "heading_mismatch_start"
	FailureHeadingMismatchEnd FailureKind = "heading_mismatch_end"
	FailureSolverFailed       FailureKind = "solver_failed"
	FailureNumericFailure     FailureKind = "numeric_failure"
	FailureCollision          FailureKind = "collision_failure"
)

// Error implements the error interface so FailureKind can be returned and
// compared via errors.Is/errors.As by callers that want the typed variant
// alongside a plain error.
func (f FailureKind) Error() string {
	return string(f)
}
