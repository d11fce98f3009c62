package profiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wealthops/risk-profiler/internal/models"
)

// ErrUnknownSession is returned for any operation against a client_id the
// store has never seen (or whose session was deleted).
var ErrUnknownSession = errors.New("unknown session")

// MissingFieldsError rejects report generation on an incomplete profile.
type MissingFieldsError struct {
	Fields []models.FieldKey
}

func (e *MissingFieldsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("profile incomplete, missing: %s", strings.Join(names, ", "))
}

// ArtifactWriteError wraps a report write failure. The state machine does
// not advance past CONFIRMED when it occurs, so retrying is safe.
type ArtifactWriteError struct {
	ClientID string
	Version  int
	Err      error
}

func (e *ArtifactWriteError) Error() string {
	return fmt.Sprintf("report write failed for client %s v%d: %v", e.ClientID, e.Version, e.Err)
}

func (e *ArtifactWriteError) Unwrap() error { return e.Err }

// UnknownFieldError rejects a field update whose name resolves to nothing.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unrecognized field %q", e.Name)
}
