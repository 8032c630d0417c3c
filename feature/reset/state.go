package reset

import "course-registry/feature/registration/models"

// State is a reset coordinator state.
type State string

const (
	// StateActive is normal operation with the reset flag unset.
	StateActive State = "active"
	// StateSoftReset hides every record until a restore.
	StateSoftReset State = "soft_reset"
	// StateRestored follows a restore; it behaves like StateActive.
	StateRestored State = "restored"
	// StateHardCleared follows a hard reset; every store is empty.
	StateHardCleared State = "hard_cleared"
)

// Outcome reports what a transition did.
type Outcome struct {
	From State `json:"from"`
	To   State `json:"to"`
	// NoOp is set when the coordinator was already in the target state.
	NoOp bool `json:"noop"`

	// PrimaryCleared is set when the primary store was emptied.
	PrimaryCleared bool `json:"primaryCleared"`
	// EphemeralCleared is set when the in-memory cache was emptied.
	EphemeralCleared bool `json:"ephemeralCleared"`
	// PrimaryRestored is set when the retained records were written back.
	PrimaryRestored bool `json:"primaryRestored"`

	// Cleared holds the number of records removed per store role.
	Cleared map[string]int `json:"cleared,omitempty"`
	// Records are the recovered records after a restore.
	Records []models.Registration `json:"records,omitempty"`
}
