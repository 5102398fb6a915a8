package generate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cindysoftware/hero/internal/worksheet"
)

// Call is a recorded generation service call. One is appended to the
// call log per attempt, successful or not, for traceability.
type Call struct {
	// Unique identifier
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Request identity
	WorksheetID string `json:"worksheet_id"`
	DocKey      string `json:"doc_key"`
	Model       string `json:"model"`
	Entries     int    `json:"entries"`

	// Response
	Response string `json:"response,omitempty"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewCall builds a Call record for one adapter attempt.
func NewCall(doc *worksheet.Document, latency time.Duration, response string, callErr error) *Call {
	call := &Call{
		ID:          uuid.New().String(),
		Timestamp:   time.Now(),
		LatencyMs:   int(latency.Milliseconds()),
		WorksheetID: doc.WorksheetID,
		DocKey:      doc.DocKey,
		Model:       doc.Model,
		Entries:     len(doc.Data),
		Response:    response,
		Success:     callErr == nil,
	}
	if callErr != nil {
		call.Error = callErr.Error()
	}
	return call
}

// Recorder appends call records to a JSONL file, one JSON object per
// line. Appends are serialized so concurrent builds never interleave.
type Recorder struct {
	mu   sync.Mutex
	path string
}

// NewRecorder creates a recorder writing to path. The parent directory
// is created on first write.
func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

// Record appends a single call record.
func (r *Recorder) Record(call *Call) error {
	if call == nil {
		return nil
	}

	data, err := json.Marshal(call)
	if err != nil {
		return fmt.Errorf("marshaling call record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating call log directory: %w", err)
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening call log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing call record: %w", err)
	}
	return nil
}
