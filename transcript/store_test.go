package transcript_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/stepcalc/transcript"
)

func TestSaveWritesSteps(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "evaluations")
	s := transcript.New(dir)
	steps := []string{"(2 + 3) * 4", "5 * 4", "20"}
	require.NoError(t, s.Save("first", steps))

	b, err := os.ReadFile(filepath.Join(dir, "first"))
	require.NoError(t, err)
	assert.Equal(t, "= (2 + 3) * 4\n= 5 * 4\n= 20\n", string(b))

	got, err := s.Load("first")
	require.NoError(t, err)
	assert.Equal(t, steps, got)
}

func TestSaveReplaces(t *testing.T) {
	s := transcript.New(t.TempDir())
	require.NoError(t, s.Save("x", []string{"1 + 1", "2"}))
	require.NoError(t, s.Save("x", []string{"3"}))
	got, err := s.Load("x")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, got)
}

func TestBadNames(t *testing.T) {
	s := transcript.New(t.TempDir())
	for _, name := range []string{"", ".", "..", "a/b", `a\b`, "../up"} {
		err := s.Save(name, []string{"1"})
		assert.True(t, errors.Is(err, transcript.ErrBadName), "saving %q: %v", name, err)
		_, err = s.Load(name)
		assert.True(t, errors.Is(err, transcript.ErrBadName), "loading %q: %v", name, err)
	}
}

func TestListAndClear(t *testing.T) {
	dir := t.TempDir()
	s := transcript.New(dir)
	require.NoError(t, s.Save("b", []string{"2"}))
	require.NoError(t, s.Save("a", []string{"1"}))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	n, err := s.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	names, err = s.List()
	require.NoError(t, err)
	assert.Empty(t, names)
	_, err = os.Stat(filepath.Join(dir, "sub"))
	assert.NoError(t, err, "clear removed a directory")
}

func TestMissingDir(t *testing.T) {
	s := transcript.New(filepath.Join(t.TempDir(), "nope"))
	names, err := s.List()
	assert.NoError(t, err)
	assert.Empty(t, names)
	n, err := s.Clear()
	assert.NoError(t, err)
	assert.Zero(t, n)
	_, err = s.Load("x")
	assert.Error(t, err)
}

func TestDefaultDir(t *testing.T) {
	assert.Equal(t, transcript.DefaultDir, transcript.New("").Dir())
}
