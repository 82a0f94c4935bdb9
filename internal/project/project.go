// Package project implements the project-management shell: creating,
// listing and opening project folders identified by a JSON "project.aero"
// descriptor.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DescriptorName is the file that marks a directory as a project.
const DescriptorName = "project.aero"

const timeLayout = "2006-01-02 15:04:05"

// Project errors.
var (
	ErrDescriptorNotFound = errors.New("project descriptor not found")
	ErrEmptyName          = errors.New("project name must not be empty")
)

// Descriptor is the persisted project record.
type Descriptor struct {
	Name       string          `json:"name"`
	Created    string          `json:"created_date"`
	LastOpened string          `json:"last_opened"`
	Session    json.RawMessage `json:"session,omitempty"` // Viewport session, opaque to the shell
}

// Project is an opened project.
type Project struct {
	Path       string
	Descriptor Descriptor
}

// Summary describes a project found by List.
type Summary struct {
	Name       string
	Path       string
	LastOpened string
}

// Create makes a new project directory under root and writes its descriptor.
func Create(root, name string) (*Project, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	path := filepath.Join(root, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating project directory: %w", err)
	}

	now := time.Now().Format(timeLayout)
	p := &Project{
		Path: path,
		Descriptor: Descriptor{
			Name:       name,
			Created:    now,
			LastOpened: now,
		},
	}
	if err := p.save(); err != nil {
		return nil, err
	}
	return p, nil
}

// Open loads a project from its directory and stamps last-opened time.
func Open(path string) (*Project, error) {
	file := filepath.Join(path, DescriptorName)
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDescriptorNotFound, file)
		}
		return nil, fmt.Errorf("reading project descriptor: %w", err)
	}

	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parsing project descriptor: %w", err)
	}

	p := &Project{Path: path, Descriptor: desc}
	p.Descriptor.LastOpened = time.Now().Format(timeLayout)
	if err := p.save(); err != nil {
		return nil, err
	}
	return p, nil
}

// List walks root for project descriptors, most recently opened first.
// Unreadable or malformed descriptors are skipped.
func List(root string) ([]Summary, error) {
	var out []Summary

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if d.IsDir() || d.Name() != DescriptorName {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var desc Descriptor
		if err := json.Unmarshal(data, &desc); err != nil {
			return nil
		}

		name := desc.Name
		if name == "" {
			name = filepath.Base(filepath.Dir(path))
		}
		out = append(out, Summary{
			Name:       name,
			Path:       filepath.Dir(path),
			LastOpened: desc.LastOpened,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning projects in %s: %w", root, err)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastOpened > out[j].LastOpened
	})
	return out, nil
}

// SaveSession stores an arbitrary session record inside the descriptor.
func (p *Project) SaveSession(session any) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	p.Descriptor.Session = data
	return p.save()
}

// LoadSession decodes the stored session record into out.
// Returns false if no session has been saved yet.
func (p *Project) LoadSession(out any) (bool, error) {
	if len(p.Descriptor.Session) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(p.Descriptor.Session, out); err != nil {
		return false, fmt.Errorf("decoding session: %w", err)
	}
	return true, nil
}

func (p *Project) save() error {
	data, err := json.MarshalIndent(p.Descriptor, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding project descriptor: %w", err)
	}
	return os.WriteFile(filepath.Join(p.Path, DescriptorName), data, 0644)
}
