package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileName is the reporter configuration file kept in the working directory.
const FileName = "qase.config.json"

// Run keys inside the document.
const (
	KeyRunID       = "testops.run.id"
	KeyRunTitle    = "testops.run.title"
	KeyRunComplete = "testops.run.complete"
)

// Defaults fills the project-specific values of a fresh document.
type Defaults struct {
	Project string
	// Token is the pytest reporter API key, not the API token.
	Token string
}

// Store wraps the qase.config.json document. It assumes a single writer.
type Store struct {
	path   string
	doc    Document
	exists bool
}

// Open loads dir/qase.config.json, or materializes the default document in
// memory when the file does not exist. Nothing is written until Save.
func Open(dir string, d Defaults) (*Store, error) {
	s := &Store{path: filepath.Join(dir, FileName)}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.doc = DefaultDocument(d.Project, d.Token)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", FileName, err)
	}
	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("parse %s: not an object", FileName)
	}
	s.doc = doc
	s.exists = true
	return s, nil
}

// Path returns the document's file path.
func (s *Store) Path() string { return s.path }

// Exists reports whether the document was loaded from or saved to disk.
func (s *Store) Exists() bool { return s.exists }

// Document returns the in-memory document. Callers must not mutate it.
func (s *Store) Document() Document { return s.doc }

// Save writes the document as indented JSON with sorted keys.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", FileName, err)
	}
	s.exists = true
	return nil
}

// Remove deletes the file. A missing file is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", FileName, err)
	}
	s.exists = false
	return nil
}

// SetRunID attaches to an existing run: the title is cleared and the run
// stays open after reporting.
func (s *Store) SetRunID(id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid run id %d", id)
	}
	if err := s.doc.set(KeyRunID, id); err != nil {
		return err
	}
	s.doc.unset(KeyRunTitle)
	if err := s.doc.set(KeyRunComplete, false); err != nil {
		return err
	}
	return s.Save()
}

// SetRunTitle makes the reporter create a new run with this title: the id
// is cleared and the run is completed after reporting.
func (s *Store) SetRunTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("run title is required")
	}
	if err := s.doc.set(KeyRunTitle, title); err != nil {
		return err
	}
	s.doc.unset(KeyRunID)
	if err := s.doc.set(KeyRunComplete, true); err != nil {
		return err
	}
	return s.Save()
}

// CompleteRun marks the run to be completed after reporting.
func (s *Store) CompleteRun() error { return s.setComplete(true) }

// KeepRunOpen marks the run to stay open after reporting.
func (s *Store) KeepRunOpen() error { return s.setComplete(false) }

func (s *Store) setComplete(v bool) error {
	if err := s.doc.set(KeyRunComplete, v); err != nil {
		return err
	}
	return s.Save()
}

// RunID returns testops.run.id, or 0 when unset.
func (s *Store) RunID() int {
	v, ok := s.doc.lookup(KeyRunID)
	if !ok {
		return 0
	}
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return int(f)
}

// RunTitle returns testops.run.title, or "" when unset.
func (s *Store) RunTitle() string {
	v, _ := s.doc.lookup(KeyRunTitle)
	t, _ := v.(string)
	return t
}

// RunComplete returns testops.run.complete.
func (s *Store) RunComplete() bool {
	v, _ := s.doc.lookup(KeyRunComplete)
	b, _ := v.(bool)
	return b
}

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindInt
	kindPositiveInt
	kindEnum
	kindRunID
	kindRunTitle
)

type keySpec struct {
	kind    valueKind
	allowed []string
}

var modes = []string{"testops", "report", "off"}

// knownKeys lists every key SetConfigValue accepts.
var knownKeys = map[string]keySpec{
	"mode":                           {kind: kindEnum, allowed: modes},
	"fallback":                       {kind: kindEnum, allowed: modes},
	"environment":                    {kind: kindString},
	"report.driver":                  {kind: kindString},
	"report.connection.local.path":   {kind: kindString},
	"report.connection.local.format": {kind: kindEnum, allowed: []string{"json", "jsonp"}},
	"testops.project":                {kind: kindString},
	"testops.api.token":              {kind: kindString},
	"testops.api.host":               {kind: kindString},
	KeyRunID:                         {kind: kindRunID},
	KeyRunTitle:                      {kind: kindRunTitle},
	KeyRunComplete:                   {kind: kindBool},
	"testops.defect":                 {kind: kindBool},
	"testops.bulk":                   {kind: kindBool},
	"testops.chunk":                  {kind: kindPositiveInt},
	"testops.plan.id":                {kind: kindInt},
	"framework.pytest.capture.logs":  {kind: kindBool},
	"framework.pytest.capture.http":  {kind: kindBool},
}

func parseBool(key, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q for %s", value, key)
	}
}

// SetConfigValue sets a config field by dot-notation key with validation
// and persists the document. Run id and title keep their exclusivity.
func (s *Store) SetConfigValue(key, value string) error {
	spec, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}

	var v any
	switch spec.kind {
	case kindString:
		v = value
	case kindBool:
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		v = b
	case kindInt, kindPositiveInt, kindRunID:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid integer value %q for %s", value, key)
		}
		if spec.kind != kindInt && n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %d", key, n)
		}
		if spec.kind == kindRunID {
			return s.SetRunID(n)
		}
		v = n
	case kindRunTitle:
		return s.SetRunTitle(value)
	case kindEnum:
		value = strings.ToLower(strings.TrimSpace(value))
		valid := false
		for _, a := range spec.allowed {
			if a == value {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid value %q for %s: must be one of %s", value, key, strings.Join(spec.allowed, ", "))
		}
		v = value
	}

	if err := s.doc.set(key, v); err != nil {
		return err
	}
	return s.Save()
}

// GetConfigValue returns the value at a dot-notation key. Any key present
// in the document can be read, including ones SetConfigValue does not know.
func (s *Store) GetConfigValue(key string) (string, error) {
	v, ok := s.doc.lookup(key)
	if !ok {
		if _, known := knownKeys[key]; known {
			return "", nil
		}
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return formatValue(v), nil
}

// ConfigEntries returns every leaf of the document as key-value pairs,
// sorted by key.
func (s *Store) ConfigEntries() [][2]string {
	return s.doc.leaves()
}
