// Package manifest records what a generation run consumed and produced.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitefreeze/internal/fsutil"
)

// BuildRecord is a complete record of a run's inputs, plan, and outputs.
type BuildRecord struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Inputs    Inputs    `json:"inputs"`
	Plan      Plan      `json:"plan"`
	Outputs   Outputs   `json:"outputs"`
	Status    string    `json:"status"`
	Duration  int64     `json:"duration_ms"`
	Error     string    `json:"error,omitempty"`
}

// Inputs captures the content a run rendered.
type Inputs struct {
	ConfigHash string      `json:"config_hash"`
	Commit     string      `json:"commit,omitempty"`
	Languages  []string    `json:"languages,omitempty"`
	Nodes      []NodeInput `json:"nodes"`
}

// NodeInput holds the content fingerprint of each language variant of a page.
// The key "" stands for the language-neutral source.
type NodeInput struct {
	Key          string            `json:"key"`
	Fingerprints map[string]string `json:"fingerprints"`
}

// Plan captures the settings a run was executed with.
type Plan struct {
	IndexFile        string          `json:"index_file"`
	RenderBase       string          `json:"render_base"`
	BaseURL          string          `json:"base_url"`
	Routes           []string        `json:"routes,omitempty"`
	SkipMedia        bool            `json:"skip_media,omitempty"`
	SkipPluginAssets bool            `json:"skip_plugin_assets,omitempty"`
	Plugins          []PluginVersion `json:"plugins,omitempty"`
}

// PluginVersion represents a plugin whose assets were exported.
type PluginVersion struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Outputs maps every written file, relative to the output folder and slash
// separated, to its sha256.
type Outputs struct {
	Folder string            `json:"folder"`
	Files  map[string]string `json:"files"`
}

// New returns a record with a fresh ID stamped now.
func New() *BuildRecord {
	return &BuildRecord{ID: uuid.NewString(), Timestamp: time.Now().UTC()}
}

// SetNodes fills Inputs.Nodes from fingerprints keyed by page and language,
// ordered by key.
func (r *BuildRecord) SetNodes(fingerprints map[string]map[string]string) {
	keys := make([]string, 0, len(fingerprints))
	for k := range fingerprints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	r.Inputs.Nodes = make([]NodeInput, 0, len(keys))
	for _, k := range keys {
		r.Inputs.Nodes = append(r.Inputs.Nodes, NodeInput{Key: k, Fingerprints: fingerprints[k]})
	}
}

// ToJSON serializes the record to JSON.
func (r *BuildRecord) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal build record: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a record from JSON.
func FromJSON(data []byte) (*BuildRecord, error) {
	var r BuildRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal build record: %w", err)
	}
	return &r, nil
}

// Hash is a deterministic digest of inputs and plan. Two runs with the same
// hash rendered the same content with the same settings. RenderBase is left
// out because it is random per run.
func (r *BuildRecord) Hash() (string, error) {
	plan := r.Plan
	plan.RenderBase = ""
	data, err := json.Marshal(struct {
		Inputs Inputs `json:"inputs"`
		Plan   Plan   `json:"plan"`
	}{r.Inputs, plan})
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// Write stores the record at path, creating parent directories.
func (r *BuildRecord) Write(path string) error {
	data, err := r.ToJSON()
	if err != nil {
		return err
	}
	return fsutil.WriteFile(path, data)
}

// Read loads a record written by Write.
func Read(path string) (*BuildRecord, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- configured record path
	if err != nil {
		return nil, err
	}
	return FromJSON(data)
}

// HashBytes returns the hex sha256 of data.
func HashBytes(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
