package formrig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxSnapshotSize is the maximum allowed snapshot size (10MB).
const MaxSnapshotSize = 10 * 1024 * 1024

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "1.0"

// RedactedValue replaces the value of redacted fields in written snapshots.
const RedactedValue = "***redacted***"

// Snapshot errors.
var (
	// ErrSnapshotTooLarge is returned when a snapshot exceeds MaxSnapshotSize.
	ErrSnapshotTooLarge = errors.New("formrig: snapshot exceeds 10MB size limit")

	// ErrNilSnapshot is returned when WriteSnapshot receives a nil snapshot.
	ErrNilSnapshot = errors.New("formrig: snapshot is nil")

	// ErrUnsupportedVersion is returned when reading a snapshot with unknown version.
	ErrUnsupportedVersion = errors.New("formrig: unsupported snapshot version")
)

var supportedVersions = map[string]bool{
	"1.0": true,
}

// FieldSnapshot is the committed state of a field after a validation pass.
type FieldSnapshot struct {
	Label            string    `json:"label"`
	DisplayLabel     string    `json:"displayLabel"`
	Value            string    `json:"value"`
	Valid            bool      `json:"valid"`
	Error            string    `json:"error,omitempty"`
	BrokenRules      []Rule    `json:"brokenRules,omitempty"`
	FirstTimeEmpty   bool      `json:"firstTimeEmpty"`
	RequirementLabel string    `json:"requirementLabel"`
	Configuration    string    `json:"configuration"`
	Type             FieldType `json:"type"`
}

// BrokenRuleNames returns the names of the broken rules.
func (s FieldSnapshot) BrokenRuleNames() []string {
	return RuleNames(s.BrokenRules)
}

// FormSnapshot is the state of a form at its last aggregation pass.
type FormSnapshot struct {
	// Version is the snapshot format version (currently "1.0")
	Version string `json:"version"`

	// ID is the form instance identifier.
	ID string `json:"id"`

	// Timestamp is when the snapshot was taken.
	Timestamp time.Time `json:"timestamp"`

	// Aggregate counts the aggregation passes completed by the form.
	Aggregate uint64 `json:"aggregate"`

	Valid     bool            `json:"valid"`
	Errors    string          `json:"errors"`
	Separator string          `json:"separator"`
	Fields    []FieldSnapshot `json:"fields"`
}

// Field returns the snapshot of the field with the given label.
func (s FormSnapshot) Field(label string) (FieldSnapshot, bool) {
	for _, field := range s.Fields {
		if field.Label == label {
			return field, true
		}
	}
	return FieldSnapshot{}, false
}

// SnapshotOption configures how a snapshot is written.
type SnapshotOption func(*snapshotConfig)

type snapshotConfig struct {
	redact []string // Field labels whose values are redacted
}

// WithRedactedFields hides the values of the given fields. Labels match
// case-insensitively.
func WithRedactedFields(labels ...string) SnapshotOption {
	return func(cfg *snapshotConfig) {
		cfg.redact = append(cfg.redact, labels...)
	}
}

// ExpandPath expands template variables using current time.
// For consistency with snapshot metadata, prefer WriteSnapshot which
// uses the snapshot's internal timestamp for expansion.
func ExpandPath(template string) string {
	return ExpandPathWithTime(template, time.Now())
}

// ExpandPathWithTime replaces all {{timestamp}} occurrences with t formatted
// as 20060102-150405.
func ExpandPathWithTime(template string, t time.Time) string {
	timestamp := t.UTC().Format("20060102-150405")
	return strings.ReplaceAll(template, "{{timestamp}}", timestamp)
}

// WriteSnapshot persists a snapshot to disk with atomic write semantics.
// The {{timestamp}} template variable in path is expanded with
// snapshot.Timestamp so the file name matches the content.
func WriteSnapshot(snapshot *FormSnapshot, pathTemplate string, opts ...SnapshotOption) error {
	if snapshot == nil {
		return ErrNilSnapshot
	}

	cfg := &snapshotConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	targetPath := ExpandPathWithTime(pathTemplate, snapshot.Timestamp)

	data, err := json.MarshalIndent(redact(*snapshot, cfg.redact), "", "  ")
	if err != nil {
		return err
	}
	if len(data) > MaxSnapshotSize {
		return ErrSnapshotTooLarge
	}

	dir := filepath.Dir(targetPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0700); mkdirErr != nil {
			return mkdirErr
		}
	}

	// Same directory so the rename stays on one filesystem.
	tempPath := targetPath + ".tmp." + uuid.NewString()

	var tempFileCreated bool
	defer func() {
		if tempFileCreated {
			_ = os.Remove(tempPath)
		}
	}()

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return err
	}
	tempFileCreated = true

	if err := os.Rename(tempPath, targetPath); err != nil {
		return err
	}
	tempFileCreated = false

	return nil
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*FormSnapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxSnapshotSize {
		return nil, ErrSnapshotTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snapshot FormSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("formrig: decode snapshot %s: %w", path, err)
	}
	if !supportedVersions[snapshot.Version] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, snapshot.Version)
	}
	return &snapshot, nil
}

func redact(snapshot FormSnapshot, labels []string) FormSnapshot {
	if len(labels) == 0 {
		return snapshot
	}

	hidden := make(map[string]bool, len(labels))
	for _, label := range labels {
		hidden[strings.ToLower(label)] = true
	}

	fields := make([]FieldSnapshot, len(snapshot.Fields))
	for i, field := range snapshot.Fields {
		if hidden[strings.ToLower(field.Label)] && field.Value != "" {
			field.Value = RedactedValue
		}
		fields[i] = field
	}
	snapshot.Fields = fields
	return snapshot
}
