// Package transcript saves the step logs of evaluations as plain text files,
// one "= step" line per step.
package transcript

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DefaultDir is the directory used for transcripts when none is configured.
const DefaultDir = "evaluations"

// prefix starts every line of a transcript.
const prefix = "= "

// ErrBadName is returned for transcript names that cannot be used as a plain
// file name inside the store's directory.
var ErrBadName = errors.New("invalid transcript name")

// Store manages the transcripts in a single directory. The directory is
// created on the first save.
type Store struct {
	dir string
}

// New returns a store for dir. An empty dir means DefaultDir.
func New(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{dir: dir}
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator) {
		return "", errors.Wrapf(ErrBadName, "%q", name)
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes steps to the transcript called name, replacing any transcript
// already there.
func (s *Store) Save(name string, steps []string) (err error) {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "creating transcript directory")
	}
	f, err := os.Create(p)
	if err != nil {
		return errors.Wrapf(err, "creating transcript %s", name)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing transcript %s", name)
		}
	}()
	w := bufio.NewWriter(f)
	for _, step := range steps {
		w.WriteString(prefix)
		w.WriteString(step)
		w.WriteByte('\n')
	}
	return errors.Wrapf(w.Flush(), "writing transcript %s", name)
}

// Load reads the steps of the transcript called name.
func (s *Store) Load(name string) ([]string, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Wrapf(err, "reading transcript %s", name)
	}
	var steps []string
	for _, line := range strings.Split(strings.TrimSuffix(string(b), "\n"), "\n") {
		if line == "" {
			continue
		}
		steps = append(steps, strings.TrimPrefix(line, prefix))
	}
	return steps, nil
}

// List returns the sorted names of all saved transcripts. A missing directory
// holds no transcripts.
func (s *Store) List() ([]string, error) {
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "listing transcripts")
	}
	var names []string
	for _, ent := range ents {
		if ent.Type().IsRegular() {
			names = append(names, ent.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Clear removes every regular file in the store's directory and returns how
// many it removed. Subdirectories and other entries are left alone. A missing
// directory is not an error.
func (s *Store) Clear() (int, error) {
	names, err := s.List()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, name := range names {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return n, errors.Wrapf(err, "removing transcript %s", name)
		}
		n++
	}
	return n, nil
}
