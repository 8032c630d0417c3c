package models

// Wire values of View.Source.
const (
	SourcePrimary      = "supabase"
	SourcePrimaryError = "supabase_error"
	SourceLocal        = "local"
	SourceMemory       = "memory"
	SourceNoConfig     = "no_config"
	SourceReset        = "reset"
)

// View is the reconciled list of registrations as served to clients.
type View struct {
	Registrations []Registration `json:"registrations"`
	// Source is one of the Source* wire values.
	Source string `json:"source"`
	// Merge is the engine tag (primary, local, ephemeral, merged, degraded, reset).
	Merge string `json:"merge"`
	// Provenance lists, per normalized email, the stores that held it.
	Provenance map[string][]string `json:"provenance"`
	// Degraded lists the stores that failed during the merge.
	Degraded []string `json:"degraded"`
	// Counts holds the number of records each healthy store returned.
	Counts map[string]int `json:"counts"`
	// Reset is true while a soft reset hides the data.
	Reset bool `json:"reset"`
}
