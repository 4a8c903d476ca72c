package backup_test

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/strawberry-py/strawberry-go/internal/backup"
)

type dumperFunc func(ctx context.Context, w io.Writer) error

func (f dumperFunc) Dump(ctx context.Context, w io.Writer) error { return f(ctx, w) }

func staticDump(content string) backup.Dumper {
	return dumperFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
}

func newService(t *testing.T, dir string, dumper backup.Dumper, keep int) *backup.Service {
	t.Helper()

	return backup.NewService(dumper, backup.Options{
		Dir:      dir,
		Instance: "strawberry",
		Keep:     keep,
	}, nil, zaptest.NewLogger(t))
}

func TestService_Run(t *testing.T) {
	dir := t.TempDir()
	s := newService(t, dir, staticDump("SELECT 1;\n"), 7)
	s.SetClock(func() time.Time { return time.Date(2022, 6, 8, 9, 5, 3, 0, time.UTC) })

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "strawberry_2022-06-08_09-05-03.sql.gz"), res.Path)
	assert.Positive(t, res.Size)
	assert.Empty(t, res.Removed)

	f, err := os.Open(res.Path)
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	content, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\n", string(content))

	// no partial file is left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestService_RunFailure(t *testing.T) {
	dir := t.TempDir()
	dumpErr := errors.New("connection refused")
	s := newService(t, dir, dumperFunc(func(context.Context, io.Writer) error { return dumpErr }), 7)

	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, dumpErr)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_Prune(t *testing.T) {
	dir := t.TempDir()
	s := newService(t, dir, staticDump("--"), 2)

	// unrelated files are never touched
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other_2020-01-01_00-00-00.sql.gz"), nil, 0o600))

	start := time.Date(2022, 6, 8, 0, 0, 0, 0, time.UTC)
	var last backup.Result
	for i := 0; i < 3; i++ {
		at := start.Add(time.Duration(i) * 24 * time.Hour)
		s.SetClock(func() time.Time { return at })

		res, err := s.Run(context.Background())
		require.NoError(t, err)
		last = res
	}

	assert.Equal(t, []string{"strawberry_2022-06-08_00-00-00.sql.gz"}, last.Removed)

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"strawberry_2022-06-10_00-00-00.sql.gz",
		"strawberry_2022-06-09_00-00-00.sql.gz",
	}, names)

	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
	assert.FileExists(t, filepath.Join(dir, "other_2020-01-01_00-00-00.sql.gz"))
}

func TestService_PruneWithoutRetention(t *testing.T) {
	dir := t.TempDir()
	s := newService(t, dir, staticDump("--"), 0)

	start := time.Date(2022, 6, 8, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		at := start.Add(time.Duration(i) * time.Hour)
		s.SetClock(func() time.Time { return at })

		res, err := s.Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, res.Removed)
	}

	names, err := s.List()
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestService_NoConcurrentRuns(t *testing.T) {
	dir := t.TempDir()
	started := make(chan struct{})
	release := make(chan struct{})

	s := newService(t, dir, dumperFunc(func(_ context.Context, w io.Writer) error {
		close(started)
		<-release
		_, err := io.WriteString(w, "--")
		return err
	}), 7)

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background())
		done <- err
	}()

	<-started
	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, backup.ErrRunning)

	close(release)
	require.NoError(t, <-done)
}

func TestService_ListMissingDir(t *testing.T) {
	s := newService(t, filepath.Join(t.TempDir(), "missing"), staticDump(""), 1)

	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}
