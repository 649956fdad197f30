package face

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Registry maps classifier labels to enrolled names and back.
// It is not safe for concurrent use; Service serializes access.
type Registry struct {
	LabelToName map[int]string `json:"label_to_name"`
	NameToLabel map[string]int `json:"name_to_label"`
	NextLabel   int            `json:"next_label"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		LabelToName: make(map[int]string),
		NameToLabel: make(map[string]int),
	}
}

// LoadRegistry reads a registry from path. A missing file yields an empty registry.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading labels: %w", err)
	}

	r := NewRegistry()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing labels %s: %w", path, err)
	}
	if r.LabelToName == nil {
		r.LabelToName = make(map[int]string)
	}
	if r.NameToLabel == nil {
		r.NameToLabel = make(map[string]int)
	}
	for label := range r.LabelToName {
		if label >= r.NextLabel {
			r.NextLabel = label + 1
		}
	}
	return r, nil
}

// Save writes the registry to path atomically (temp file + rename).
func (r *Registry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding labels: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".labels-*.json")
	if err != nil {
		return fmt.Errorf("creating temp labels file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing labels: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing labels: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing labels: %w", err)
	}
	return nil
}

// Assign returns the label for name, allocating the next free one for a new name.
func (r *Registry) Assign(name string) (label int, created bool) {
	if label, ok := r.NameToLabel[name]; ok {
		return label, false
	}
	label = r.NextLabel
	r.LabelToName[label] = name
	r.NameToLabel[name] = label
	r.NextLabel++
	return label, true
}

// Remove forgets name. Its label is never reused.
func (r *Registry) Remove(name string) {
	if label, ok := r.NameToLabel[name]; ok {
		delete(r.NameToLabel, name)
		delete(r.LabelToName, label)
	}
}

// Name returns the name registered for label.
func (r *Registry) Name(label int) (string, bool) {
	name, ok := r.LabelToName[label]
	return name, ok
}

// Label returns the label registered for name.
func (r *Registry) Label(name string) (int, bool) {
	label, ok := r.NameToLabel[name]
	return label, ok
}

// Len returns the number of enrolled names.
func (r *Registry) Len() int {
	return len(r.LabelToName)
}

// Labels returns all labels in ascending order.
func (r *Registry) Labels() []int {
	labels := make([]int, 0, len(r.LabelToName))
	for label := range r.LabelToName {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	return labels
}

// Names returns enrolled names in enrollment (label) order.
func (r *Registry) Names() []string {
	labels := r.Labels()
	names := make([]string, len(labels))
	for i, label := range labels {
		names[i] = r.LabelToName[label]
	}
	return names
}
