// Package testindex builds the local index of pytest files: the suite name
// derived from each file name and the Qase case ids attached to its tests.
package testindex

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Case is one test function.
type Case struct {
	Name string `yaml:"name" json:"name"`
	// QaseID is 0 when the test has no @qase.id decorator.
	QaseID int `yaml:"qase_id,omitempty" json:"qase_id,omitempty"`
}

// File is one test module.
type File struct {
	Path      string `yaml:"path,omitempty" json:"path,omitempty"`
	SuiteName string `yaml:"suite_name" json:"suite_name"`
	Cases     []Case `yaml:"cases" json:"cases"`
}

// Duplicate is a Qase id used by more than one test.
type Duplicate struct {
	ID    int
	Tests []string
}

var (
	qaseIDRe = regexp.MustCompile(`@qase\.id\(\s*(\d+)\s*\)`)
	defRe    = regexp.MustCompile(`^\s*(?:async\s+)?def\s+(\w+)\s*\(`)
)

// SuiteName derives the suite name from a test file name:
// test_client_auth.py becomes "Test Client Auth".
func SuiteName(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := cases.Title(language.Und)
	var words []string
	for _, w := range strings.Split(stem, "_") {
		if w != "" {
			words = append(words, title.String(w))
		}
	}
	return strings.Join(words, " ")
}

// IsTestFile reports whether name matches test_*.py.
func IsTestFile(name string) bool {
	return strings.HasPrefix(name, "test_") && strings.HasSuffix(name, ".py")
}

// Parse reads one test module. A @qase.id(N) decorator attaches to the next
// def that follows it; decorators above a non-test def are dropped.
func Parse(path string, r io.Reader) (File, error) {
	f := File{Path: path, SuiteName: SuiteName(path), Cases: []Case{}}
	var pending int
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if m := qaseIDRe.FindStringSubmatch(line); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				return File{}, fmt.Errorf("%s: invalid qase id %q: %w", path, m[1], err)
			}
			pending = id
			continue
		}
		m := defRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if strings.HasPrefix(m[1], "test") {
			f.Cases = append(f.Cases, Case{Name: m[1], QaseID: pending})
		}
		pending = 0
	}
	if err := sc.Err(); err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return f, nil
}

// ParseFile opens and parses one test module.
func ParseFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open test file: %w", err)
	}
	defer fh.Close()
	return Parse(path, fh)
}

var skipDirs = map[string]bool{
	"__pycache__":  true,
	"node_modules": true,
	"venv":         true,
}

// Scan indexes every test_*.py under root, sorted by path. Directories in
// skipDirs and hidden directories are not entered.
func Scan(root string) ([]File, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsTestFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		f, err := ParseFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// Load reads an index from a YAML or JSON file holding a list of files.
// Missing suite names are derived from the path.
func Load(path string) ([]File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var files []File
	if err := yaml.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("parse index %s: %w", path, err)
	}
	for i := range files {
		if files[i].SuiteName == "" && files[i].Path != "" {
			files[i].SuiteName = SuiteName(files[i].Path)
		}
		if files[i].SuiteName == "" {
			return nil, fmt.Errorf("parse index %s: entry %d has neither suite_name nor path", path, i)
		}
	}
	return files, nil
}

// IDs returns every Qase id in files in index order, repeats included.
func IDs(files []File) []int {
	var out []int
	for _, f := range files {
		for _, c := range f.Cases {
			if c.QaseID != 0 {
				out = append(out, c.QaseID)
			}
		}
	}
	return out
}

// Duplicates returns the ids used by more than one test, sorted by id.
// Tests are named path::function.
func Duplicates(files []File) []Duplicate {
	byID := map[int][]string{}
	for _, f := range files {
		for _, c := range f.Cases {
			if c.QaseID != 0 {
				byID[c.QaseID] = append(byID[c.QaseID], f.Path+"::"+c.Name)
			}
		}
	}
	var out []Duplicate
	for id, tests := range byID {
		if len(tests) > 1 {
			out = append(out, Duplicate{ID: id, Tests: tests})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
