package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchFileDebounces(t *testing.T) {
	const debounce = 300 * time.Millisecond

	path := filepath.Join(t.TempDir(), "scene.yaml")
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("viewport: {width: 1, height: 1}")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, debounce, func() { changes <- struct{}{} })
	}()

	// Rewrite until the watcher reports, so it is known to be running.
	ready := false
	for range 10 {
		write("viewport: {width: 2, height: 2}")
		select {
		case <-changes:
			ready = true
		case <-time.After(3 * debounce):
		}
		if ready {
			break
		}
	}
	if !ready {
		t.Fatal("watcher never reported a change")
	}

	write("viewport: {width: 3, height: 3}")
	time.Sleep(debounce / 6)
	write("viewport: {width: 4, height: 4}")

	time.Sleep(3 * debounce)
	if n := len(changes); n != 1 {
		t.Errorf("two writes within the debounce window re-rendered %d times, want 1", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchFile: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("watchFile did not return after cancel")
	}
}
