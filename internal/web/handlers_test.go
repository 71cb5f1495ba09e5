package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/evcraddock/condour/internal/discussion"
	"github.com/evcraddock/condour/internal/scan"
	"github.com/evcraddock/condour/internal/sentiment"
)

// fakeScanner returns a canned result, or err when set.
type fakeScanner struct {
	mu       sync.Mutex
	requests []scan.Request
	result   *scan.Result
	err      error
}

func (f *fakeScanner) Run(_ context.Context, req scan.Request, progress scan.ProgressFunc) (*scan.Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if strings.TrimSpace(req.Input) == "" {
		return nil, scan.ErrBlankInput
	}
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.result.Log {
		progress(e)
	}
	r := *f.result
	r.ProductName = req.Input
	return &r, nil
}

func testResult() *scan.Result {
	post := discussion.Post{
		ID:          "abc",
		Title:       "Kindle Paperwhite is great",
		Community:   "gadgets",
		Author:      "reader",
		Body:        "**Battery** lasts weeks.\n\n<script>alert(1)</script>",
		Score:       1200,
		NumComments: 40,
		Created:     float64(time.Now().Add(-48 * time.Hour).Unix()),
		Permalink:   "https://www.reddit.com/r/gadgets/comments/abc/kindle/",
	}
	comment := discussion.Comment{
		ID:        "c1",
		Author:    "replier",
		Body:      "Screen is *excellent*",
		Score:     5,
		Depth:     1,
		PostTitle: post.Title,
		Community: post.Community,
	}
	return &scan.Result{
		ID:        "scan-1",
		Source:    scan.SourceLive,
		Posts:     []discussion.Post{post},
		Comments:  []discussion.Comment{comment},
		Stats:     scan.Stats{TotalPosts: 1, TotalComments: 1, AvgScore: 1200, Communities: []string{"gadgets"}},
		Sentiment: sentiment.Aggregate([]string{post.Title, comment.Body}),
		Log: []scan.Event{
			{Level: scan.LevelInfo, Message: "Analyzing product input", Time: time.Now()},
			{Level: scan.LevelSuccess, Message: "Analysis complete: 1 comments processed", Time: time.Now()},
		},
		ScannedAt: time.Now(),
	}
}

func testServer(t *testing.T) (*Server, *fakeScanner) {
	t.Helper()
	f := &fakeScanner{result: testResult()}
	srv, err := NewServer(f)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, f
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	r := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want application/json", ct)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", w.Body.String())
	}
}

func TestHandleIndex(t *testing.T) {
	srv, _ := testServer(t)

	r := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, `action="/scan"`) {
		t.Error("expected search form")
	}
	if strings.Contains(body, "Last scan") {
		t.Error("expected no last scan before any scan ran")
	}
}

func TestHandleIndexShowsLatest(t *testing.T) {
	srv, _ := testServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/scan?q=kindle", nil))

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	body := w.Body.String()
	if !strings.Contains(body, "Last scan") {
		t.Error("expected last scan section")
	}
	if !strings.Contains(body, `href="/scan?q=kindle"`) {
		t.Error("expected link back to the report")
	}
}

func TestHandleIndexUnknownPath(t *testing.T) {
	srv, _ := testServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestHandleScanPage(t *testing.T) {
	srv, f := testServer(t)

	r := httptest.NewRequest("GET", "/scan?q=kindle+paperwhite", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	body := w.Body.String()

	for _, want := range []string{
		"Kindle Paperwhite is great",
		"r/gadgets",
		"1,200",
		"2 days ago",
		"<strong>Battery</strong>",
		"<em>excellent</em>",
		"sentiment-positive",
		"Analysis complete",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in report", want)
		}
	}
	if strings.Contains(body, "<script>alert") {
		t.Error("expected script tag stripped from post body")
	}
	if strings.Contains(body, "sample data") {
		t.Error("expected no synthetic notice for live result")
	}

	if len(f.requests) != 1 || f.requests[0].Input != "kindle paperwhite" {
		t.Errorf("requests = %+v", f.requests)
	}
	if srv.Latest() == nil {
		t.Error("expected latest result to be recorded")
	}
}

func TestHandleScanPageSynthetic(t *testing.T) {
	srv, f := testServer(t)
	f.result.Source = scan.SourceSynthetic

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/scan?q=kindle", nil))

	if !strings.Contains(w.Body.String(), "sample data") {
		t.Error("expected synthetic notice")
	}
}

func TestHandleScanPageBlankRedirects(t *testing.T) {
	srv, f := testServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/scan?q=+++", nil))

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("location = %q, want /", loc)
	}
	if len(f.requests) != 0 {
		t.Error("expected no scan for blank query")
	}
}

func TestHandleScanPageRejectsLongInput(t *testing.T) {
	srv, f := testServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/scan?q="+strings.Repeat("x", 2049), nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), "at most 2048") {
		t.Errorf("body = %q", w.Body.String())
	}
	if len(f.requests) != 0 {
		t.Error("expected no scan for oversized query")
	}
}

func TestHandleScanPageError(t *testing.T) {
	srv, f := testServer(t)
	f.err = errors.New("context canceled")

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/scan?q=kindle", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if srv.Latest() != nil {
		t.Error("expected failed scan not to replace latest")
	}
}

func TestStaticAssets(t *testing.T) {
	srv, _ := testServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/static/style.css", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		notWant string
	}{
		{"emphasis", "so *good*", "<em>good</em>", ""},
		{"strips script", "hi <script>x()</script>", "hi", "<script"},
		{"strips javascript links", "[x](javascript:alert(1))", "x", "javascript:"},
		{"autolinks", "see https://example.com", `href="https://example.com"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(renderMarkdown(tt.in))
			if !strings.Contains(got, tt.want) {
				t.Errorf("renderMarkdown(%q) = %q, want to contain %q", tt.in, got, tt.want)
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("renderMarkdown(%q) = %q, must not contain %q", tt.in, got, tt.notWant)
			}
		})
	}
}

func TestGroupByCommunity(t *testing.T) {
	posts := []discussion.Post{
		{ID: "1", Community: "b", Score: 10},
		{ID: "2", Community: "a", Score: 3},
		{ID: "3", Community: "b", Score: 5},
	}

	got := groupByCommunity(posts)
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "a" {
		t.Fatalf("groups = %+v", got)
	}
	if len(got[0].Posts) != 2 {
		t.Errorf("b posts = %d, want 2", len(got[0].Posts))
	}
	if avg := tmplAvg(got[0].Posts); avg != 8 {
		t.Errorf("avg = %d, want 8", avg)
	}
}

func TestTmplAgo(t *testing.T) {
	if got := tmplAgo(0); got != "unknown" {
		t.Errorf("tmplAgo(0) = %q", got)
	}
	created := float64(time.Now().Add(-3 * time.Hour).Unix())
	if got := tmplAgo(created); got != "3 hours ago" {
		t.Errorf("tmplAgo = %q, want 3 hours ago", got)
	}
}
