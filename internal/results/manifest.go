package results

import (
	"time"

	"github.com/google/uuid"
)

// Manifest records what produced a results directory.
type Manifest struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Params    any       `json:"params,omitempty"`
}

// NewManifest stamps a fresh run id over the given parameters.
func NewManifest(params any) Manifest {
	return Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Params:    params,
	}
}
