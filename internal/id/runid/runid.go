// Package runid generates run identifiers.
package runid

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a time-ordered UUID v7 string identifying one harvest run.
// Every Record in a run carries the same ID so runs can be told apart in
// the combined logs.
func New() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return id.String(), nil
}
