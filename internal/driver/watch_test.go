package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchDebouncesChanges(t *testing.T) {
	root := writeTree(t, map[string]string{"main.esspy": "मुद्रण(1)\n"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, root, 50*time.Millisecond, func() { calls.Add(1) })
	}()
	// даём наблюдателю подписаться
	time.Sleep(100 * time.Millisecond)

	mainPath := filepath.Join(root, "main.esspy")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(mainPath, []byte("मुद्रण("+string(rune('1'+i))+")\n"), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o600))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load(), "a burst of writes must trigger one check")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchFollowsNewDirectories(t *testing.T) {
	root := writeTree(t, map[string]string{"main.esspy": "मुद्रण(1)\n"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	go func() { _ = Watch(ctx, root, 30*time.Millisecond, func() { calls.Add(1) }) }()
	time.Sleep(100 * time.Millisecond)

	sub := filepath.Join(root, "lib")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "lib.esspy"), []byte("सङ्ग्रह lib\n"), 0o600))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestWatchSerializesSlowChecks(t *testing.T) {
	root := writeTree(t, map[string]string{"main.esspy": "मुद्रण(1)\n"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var running, overlaps, calls atomic.Int32
	onChange := func() {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		calls.Add(1)
		time.Sleep(150 * time.Millisecond)
		running.Add(-1)
	}
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, root, 10*time.Millisecond, onChange) }()
	time.Sleep(100 * time.Millisecond)

	mainPath := filepath.Join(root, "main.esspy")
	for i := 0; i < 4; i++ {
		require.NoError(t, os.WriteFile(mainPath, []byte("मुद्रण("+string(rune('1'+i))+")\n"), 0o600))
		time.Sleep(40 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	require.Zero(t, running.Load(), "no check may still run after Watch returns")
	after := calls.Load()
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, after, calls.Load(), "no check may start after Watch returns")
	require.Zero(t, overlaps.Load(), "checks must not overlap")
}

func TestWatchedFiles(t *testing.T) {
	require.True(t, watched("/p/main.esspy"))
	require.True(t, watched("/p/native/n.go"))
	require.True(t, watched("/p/esspy.toml"))
	require.False(t, watched("/p/native/n_test.go"))
	require.False(t, watched("/p/readme.md"))
}
