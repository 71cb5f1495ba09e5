package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/evcraddock/condour/internal/cache"
	"github.com/evcraddock/condour/internal/db"
	"github.com/evcraddock/condour/internal/discussion"
	"github.com/evcraddock/condour/internal/scan"
)

func healthServer(t *testing.T, latest *scan.Result) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case "/api/scan/latest":
			if latest == nil {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"no scan has completed yet"}`))
				return
			}
			if err := json.NewEncoder(w).Encode(latest); err != nil {
				t.Errorf("encode: %v", err)
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStatusConnected(t *testing.T) {
	srv := healthServer(t, nil)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONDOUR_SERVER_URL", srv.URL)

	out, err := executeCommand("status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Server:  "+srv.URL) {
		t.Errorf("expected server URL in output: %q", out)
	}
	if !strings.Contains(out, "✓ connected") {
		t.Errorf("expected connected status: %q", out)
	}
}

func TestStatusUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONDOUR_SERVER_URL", url)

	out, err := executeCommand("--format", "json", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var view struct {
		ServerURL string `json:"server_url"`
		Reachable bool   `json:"reachable"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if view.Reachable || view.Error == "" {
		t.Errorf("view = %+v, want unreachable with error", view)
	}
	if view.ServerURL != url {
		t.Errorf("server_url = %q, want %q", view.ServerURL, url)
	}
}

func TestLatest(t *testing.T) {
	srv := healthServer(t, &scan.Result{
		ID:          "scan-9",
		ProductName: "steam deck",
		Source:      scan.SourceLive,
		Posts:       []discussion.Post{{ID: "p1", Title: "Steam Deck OLED thoughts", Community: "gadgets", NumComments: 12}},
		Stats:       scan.Stats{TotalPosts: 1, Communities: []string{"gadgets"}},
	})
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONDOUR_SERVER_URL", srv.URL)

	out, err := executeCommand("latest")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !strings.Contains(out, "Condour report: steam deck") || !strings.Contains(out, "Steam Deck OLED thoughts") {
		t.Errorf("unexpected report: %q", out)
	}

	out, err = executeCommand("--format", "json", "latest")
	if err != nil {
		t.Fatalf("latest json: %v", err)
	}
	var result scan.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if result.ID != "scan-9" {
		t.Errorf("id = %q, want scan-9", result.ID)
	}
}

func TestLatestNoScan(t *testing.T) {
	srv := healthServer(t, nil)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONDOUR_SERVER_URL", srv.URL)

	out, err := executeCommand("latest")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !strings.Contains(out, "No scan has completed") {
		t.Errorf("output = %q", out)
	}
}

func TestScanVerboseLogsStack(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	t.Setenv("CONDOUR_BASE_URL", upstream.URL)
	t.Setenv("CONDOUR_RELAYS", "direct")
	t.Setenv("CONDOUR_COMMUNITIES", "gadgets,headphones")
	t.Setenv("CONDOUR_QUERY_DELAY", "0s")
	t.Setenv("CONDOUR_CACHE_DSN", "off")

	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"--format", "json", "-v", "scan", "kindle", "--no-comments"})
	if err := root.Execute(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	logs := stderr.String()
	for _, want := range []string{"scan stack ready", "relays=[direct]", "communities=[gadgets headphones]", "cache=false"} {
		if !strings.Contains(logs, want) {
			t.Errorf("expected %q in logs:\n%s", want, logs)
		}
	}
}

func TestPurgeCache(t *testing.T) {
	d, err := db.Open(db.MemoryDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	repo := cache.NewRepository(d, time.Hour)
	ctx := context.Background()
	if err := repo.Put(ctx, "https://example.com/a.json", []byte("{}")); err != nil {
		t.Fatalf("put: %v", err)
	}

	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	purgeCache(ctx, repo)

	if !strings.Contains(buf.String(), "removed=0") || !strings.Contains(buf.String(), "remaining=1") {
		t.Errorf("unexpected log: %s", buf.String())
	}
}
