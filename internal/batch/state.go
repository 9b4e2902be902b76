package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StateVersion is the current persisted state schema version.
const StateVersion = 1

// State is the resumable progress record of a sequential batch run. It is
// persisted after every processed file so a crash loses at most the
// in-flight file.
type State struct {
	Version        int          `json:"version"`
	InputDir       string       `json:"input_dir"`
	OutputDir      string       `json:"output_dir"`
	Model          string       `json:"model"`
	OutputFormat   string       `json:"output_format"`
	StartedAt      string       `json:"started_at"`
	ProcessedFiles []string     `json:"processed_files"`
	FailedFiles    []string     `json:"failed_files"`
	Results        []FileResult `json:"results"`
}

// NewState creates a fresh state for a run starting now.
func NewState(inputDir, outputDir, model, outputFormat string) *State {
	return &State{
		Version:      StateVersion,
		InputDir:     inputDir,
		OutputDir:    outputDir,
		Model:        model,
		OutputFormat: outputFormat,
		StartedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

// MarkProcessed records a successful file, keeping the processed and failed
// sets disjoint.
func (s *State) MarkProcessed(path string) {
	s.FailedFiles = remove(s.FailedFiles, path)
	if !contains(s.ProcessedFiles, path) {
		s.ProcessedFiles = append(s.ProcessedFiles, path)
	}
}

// MarkFailed records a failed file, keeping the processed and failed sets
// disjoint.
func (s *State) MarkFailed(path string) {
	s.ProcessedFiles = remove(s.ProcessedFiles, path)
	if !contains(s.FailedFiles, path) {
		s.FailedFiles = append(s.FailedFiles, path)
	}
}

// Attempted reports whether the file was already processed or failed in a
// previous pass. Resume skips attempted files; failed files are not
// automatically retried.
func (s *State) Attempted(path string) bool {
	return contains(s.ProcessedFiles, path) || contains(s.FailedFiles, path)
}

// Save writes the state to path, replacing any previous snapshot.
func (s *State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode batch state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write batch state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write batch state: %w", err)
	}
	return nil
}

// LoadState reads a prior state snapshot. It returns (nil, nil) when no
// state file exists, and an error for unreadable or corrupt snapshots so
// the caller can fall back to a fresh state. Unknown fields are ignored and
// missing fields default, keeping old snapshots forward-readable.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read batch state: %w", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode batch state: %w", err)
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("batch state version %d is newer than supported %d", state.Version, StateVersion)
	}
	return &state, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func remove(values []string, value string) []string {
	out := values[:0]
	for _, v := range values {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
