package cotask

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileReadAllReturnsFullContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.txt")
	const contents = "hello, cooperative scheduler\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	sched, err := NewScheduler(WithFileScratchSize(4))
	require.NoError(t, err)
	defer sched.Close()

	var got string
	root := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		reader, err := OpenFile(sched, path)
		require.NoError(t, err)
		defer reader.Close()
		result := Await(tc, reader.ReadAll(0))
		require.True(t, result.Success)
		got = result.String()
		return Unit{}
	})
	require.NoError(t, ScheduleRoot(sched, root))
	require.NoError(t, sched.Execute())
	require.Equal(t, contents, got)
}

func TestFileReadBufReadsRequestedRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o600))

	sched, err := NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	var n int
	var success bool
	var buf [4]byte
	root := Spawn(sched, func(tc *TaskContext[Unit]) Unit {
		reader, err := OpenFile(sched, path)
		require.NoError(t, err)
		defer reader.Close()
		result := Await(tc, reader.ReadBuf(3, buf[:]))
		n, success = result.N, result.Success
		return Unit{}
	})
	require.NoError(t, ScheduleRoot(sched, root))
	require.NoError(t, sched.Execute())
	require.True(t, success)
	require.Equal(t, 4, n)
	require.Equal(t, "3456", string(buf[:]))
}

func TestOpenFileMissingReturnsError(t *testing.T) {
	sched, err := NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	_, err = OpenFile(sched, filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}
