package ui

import (
	"bytes"
	"strings"
	"testing"

	"esspy/internal/driver"
)

func TestProgressModelTracksEvents(t *testing.T) {
	files := []string{"/p/a.esspy", "/p/lib/b.esspy"}
	m := NewProgressModel("translating", "/p", files, nil).(*progressModel)

	if m.items[1].name != "lib/b.esspy" {
		t.Fatalf("name = %q, want path relative to root", m.items[1].name)
	}

	m.applyEvent(driver.FileEvent{Path: files[0], Status: driver.FileStarted})
	m.applyEvent(driver.FileEvent{Path: files[1], Status: driver.FileFailed})
	m.applyEvent(driver.FileEvent{Path: "/elsewhere.esspy", Status: driver.FileDone})

	if m.items[0].status != "working" || m.items[1].status != "failed" {
		t.Fatalf("unexpected statuses %+v", m.items)
	}
	view := m.View()
	if !strings.Contains(view, "(1 failed)") || !strings.Contains(view, "lib/b.esspy") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestProgressModelDone(t *testing.T) {
	m := NewProgressModel("translating", "/p", []string{"/p/a.esspy"}, nil).(*progressModel)
	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatal("done message must finish the model")
	}
	if !strings.HasPrefix(m.View(), "done: ") && !strings.Contains(m.View(), "done: translating") {
		t.Fatalf("unexpected view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("परिहरन/मॉड्यूल.esspy", 8); got == "परिहरन/मॉड्यूल.esspy" {
		t.Fatalf("expected truncation, got %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
}

func TestRunProgressReturnsWorkError(t *testing.T) {
	var out bytes.Buffer
	called := false
	err := RunProgress(&out, "t", "/p", []string{"/p/a.esspy"}, func(emit driver.Observer) error {
		called = true
		emit(driver.FileEvent{Path: "/p/a.esspy", Status: driver.FileStarted})
		emit(driver.FileEvent{Path: "/p/a.esspy", Status: driver.FileDone})
		return nil
	})
	if err != nil {
		t.Fatalf("RunProgress: %v", err)
	}
	if !called {
		t.Fatal("work was not called")
	}
}
