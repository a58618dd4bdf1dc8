package importer

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCheckAll_Mixed(t *testing.T) {
	// Server that returns 200.
	srv200 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv200.Close()

	// Server that returns 404.
	srv404 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv404.Close()

	// Server that returns 500.
	srv500 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv500.Close()

	dir := t.TempDir()
	sdb, err := OpenSourceDB(filepath.Join(dir, "sources.db"))
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	defer sdb.Close()

	adapters := []Adapter{
		&fakeAdapter{"ok-source", "nouns-a", "OK source", srv200.URL, "CC0"},
		&fakeAdapter{"notfound-source", "nouns-b", "404 source", srv404.URL, "CC0"},
		&fakeAdapter{"error-source", "nouns-c", "500 source", srv500.URL, "CC0"},
	}
	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	checker := NewChecker(sdb, logger, time.Hour)

	ctx := context.Background()
	checker.CheckAll(ctx)

	sources, err := sdb.ListSources()
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}

	statusByID := make(map[string]int)
	for _, src := range sources {
		if src.LastStatus != nil {
			statusByID[src.AdapterID] = *src.LastStatus
		}
	}

	if statusByID["ok-source"] != 200 {
		t.Errorf("ok-source: expected 200, got %d", statusByID["ok-source"])
	}
	if statusByID["notfound-source"] != 404 {
		t.Errorf("notfound-source: expected 404, got %d", statusByID["notfound-source"])
	}
	if statusByID["error-source"] != 500 {
		t.Errorf("error-source: expected 500, got %d", statusByID["error-source"])
	}
}

func TestCheckAll_NetworkError(t *testing.T) {
	dir := t.TempDir()
	sdb, err := OpenSourceDB(filepath.Join(dir, "sources.db"))
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	defer sdb.Close()

	adapters := []Adapter{
		&fakeAdapter{"dead-source", "nouns-a", "dead", "http://127.0.0.1:1", "CC0"},
	}
	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	checker := NewChecker(sdb, logger, time.Hour)

	ctx := context.Background()
	checker.CheckAll(ctx)

	sources, _ := sdb.ListSources()
	src := sources[0]
	if src.LastStatus == nil || *src.LastStatus != 0 {
		t.Errorf("expected status 0 for network error, got %v", src.LastStatus)
	}
	if src.LastError == nil || *src.LastError == "" {
		t.Error("expected non-empty last_error for network error")
	}
}

func TestCheckAll_Report(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	sdb := tempSourceDB(t)
	adapters := []Adapter{
		&fakeAdapter{"stale-source", "nouns-a", "imported then lost", down.URL, "CC0"},
		&fakeAdapter{"missing-source", "nouns-b", "never imported", down.URL, "CC0"},
		&fakeAdapter{"back-source", "nouns-c", "comes back", up.URL, "CC0"},
	}
	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := sdb.RecordImport("stale-source", 1234); err != nil {
		t.Fatalf("RecordImport: %v", err)
	}
	if err := sdb.UpdateCheck("back-source", 0, "connection refused"); err != nil {
		t.Fatalf("UpdateCheck: %v", err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	report := NewChecker(sdb, logger, time.Hour).CheckAll(context.Background())

	if report.Total != 3 || report.OK != 1 || report.Failed != 2 {
		t.Errorf("report counts = %+v, want total=3 ok=1 failed=2", report)
	}
	if len(report.Stale) != 1 || report.Stale[0] != "nouns-a" {
		t.Errorf("Stale = %v, want [nouns-a]", report.Stale)
	}
	if len(report.Missing) != 1 || report.Missing[0] != "nouns-b" {
		t.Errorf("Missing = %v, want [nouns-b]", report.Missing)
	}
	if len(report.Recovered) != 1 || report.Recovered[0] != "back-source" {
		t.Errorf("Recovered = %v, want [back-source]", report.Recovered)
	}

	out := buf.String()
	for _, want := range []string{"entries=1234", "last_import=", "source unreachable and never imported", "source recovered"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckAll_EmptyDB(t *testing.T) {
	dir := t.TempDir()
	sdb, err := OpenSourceDB(filepath.Join(dir, "sources.db"))
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	defer sdb.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	checker := NewChecker(sdb, logger, time.Hour)

	// Should not panic on empty DB.
	checker.CheckAll(context.Background())
}

func TestCheckAll_Redirect(t *testing.T) {
	// A 301 is recorded as-is and counted as reachable.
	srv301 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://example.com/new")
		w.WriteHeader(http.StatusMovedPermanently)
	}))
	defer srv301.Close()

	dir := t.TempDir()
	sdb, err := OpenSourceDB(filepath.Join(dir, "sources.db"))
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	defer sdb.Close()

	adapters := []Adapter{
		&fakeAdapter{"redirect-source", "nouns-a", "redirect", srv301.URL, "CC0"},
	}
	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	checker := NewChecker(sdb, logger, time.Hour)
	checker.CheckAll(context.Background())

	sources, _ := sdb.ListSources()
	src := sources[0]
	if src.LastStatus == nil || *src.LastStatus != 301 {
		t.Errorf("expected status 301, got %v", src.LastStatus)
	}
}

func TestCheckAll_SendsHEAD(t *testing.T) {
	var (
		mu            sync.Mutex
		method, agent string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, agent = r.Method, r.Header.Get("User-Agent")
		mu.Unlock()
	}))
	defer srv.Close()

	sdb := tempSourceDB(t)
	if err := sdb.Seed([]Adapter{&fakeAdapter{"head-source", "nouns-a", "head", srv.URL, "CC0"}}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	NewChecker(sdb, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour).CheckAll(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodHead {
		t.Errorf("method = %q, want HEAD", method)
	}
	if agent != userAgent {
		t.Errorf("User-Agent = %q, want %q", agent, userAgent)
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	sdb := tempSourceDB(t)
	checker := NewChecker(sdb, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		checker.Start(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
