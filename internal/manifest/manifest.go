package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/actisum-cli/internal/ingest"
	"github.com/KaramelBytes/actisum-cli/internal/report"
	"github.com/KaramelBytes/actisum-cli/internal/utils"
)

const suffix = ".manifest.json"

// Manifest records how one report was produced.
type Manifest struct {
	RunID     string          `json:"run_id"`
	Input     string          `json:"input"`
	Sheet     string          `json:"sheet,omitempty"`
	Output    string          `json:"output"`
	Chart     string          `json:"chart,omitempty"`
	Settings  report.Settings `json:"settings"`
	Dates     []string        `json:"dates"`
	Stats     ingest.Stats    `json:"stats"`
	CreatedAt time.Time       `json:"created_at"`

	// Not serialized: on-disk location of the manifest
	path string `json:"-"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

// PathFor returns the manifest path that sits next to a report: the report's full
// name plus ".manifest.json".
func PathFor(output string) string {
	return output + suffix
}

// New constructs an in-memory manifest for output. Call Save() to persist.
func New(runID, input, sheet, output string) *Manifest {
	if runID == "" {
		runID = NewRunID()
	}
	return &Manifest{
		RunID:     runID,
		Input:     input,
		Sheet:     sheet,
		Output:    output,
		Dates:     []string{},
		CreatedAt: time.Now().UTC(),
		path:      PathFor(output),
	}
}

// Load reads a manifest file.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.path = path
	return &m, nil
}

// Path returns where the manifest is saved.
func (m *Manifest) Path() string { return m.path }

// SetDates records the retained days in order.
func (m *Manifest) SetDates(dates []time.Time) {
	m.Dates = make([]string, len(dates))
	for i, d := range dates {
		m.Dates[i] = d.Format(time.DateOnly)
	}
}

// Save writes the manifest using atomic write.
func (m *Manifest) Save() error {
	if m.path == "" {
		return errors.New("manifest path not set")
	}
	if err := utils.EnsureParentDir(m.path); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(m.path, data)
}
