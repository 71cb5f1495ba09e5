package web

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/evcraddock/condour/internal/discussion"
	"github.com/evcraddock/condour/internal/scan"
	"github.com/evcraddock/condour/internal/sentiment"
)

type indexData struct {
	Latest *scan.Result
}

type reportData struct {
	Query       string
	Result      *scan.Result
	Communities []communitySummary
}

// communitySummary is the per-community breakdown shown on the report.
type communitySummary struct {
	Name  string
	Posts []discussion.Post
}

// handleIndex renders the search form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.render(w, "index.html", indexData{Latest: s.Latest()})
}

// handleScanPage runs a scan for ?q= and renders the report.
func (s *Server) handleScanPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	req := scan.Request{Input: q}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	result, err := s.runScan(r.Context(), req)
	if errors.Is(err, scan.ErrBlankInput) {
		http.Error(w, "Product input is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Error running scan: %v", err), http.StatusInternalServerError)
		return
	}

	s.render(w, "report.html", reportData{
		Query:       q,
		Result:      result,
		Communities: groupByCommunity(result.Posts),
	})
}

// render executes a full page template.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
	}
}

// groupByCommunity groups posts in order of first appearance.
func groupByCommunity(posts []discussion.Post) []communitySummary {
	var out []communitySummary
	index := map[string]int{}
	for _, p := range posts {
		i, ok := index[p.Community]
		if !ok {
			i = len(out)
			index[p.Community] = i
			out = append(out, communitySummary{Name: p.Community})
		}
		out[i].Posts = append(out[i].Posts, p)
	}
	return out
}

// Template helper functions

func tmplAgo(created float64) string {
	if created <= 0 {
		return "unknown"
	}
	return humanize.Time(time.Unix(int64(created), 0))
}

func tmplComma(n int) string {
	return humanize.Comma(int64(n))
}

func tmplLabel(text string) string {
	return string(sentiment.Score(text))
}

func tmplIndent(depth int) int {
	return min(depth, 6) * 16
}

func tmplAvg(posts []discussion.Post) int {
	if len(posts) == 0 {
		return 0
	}
	total := 0
	for _, p := range posts {
		total += p.Score
	}
	return int(math.Round(float64(total) / float64(len(posts))))
}

func tmplTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}

// scanURL links to the report for q.
func scanURL(q string) string {
	return "/scan?q=" + url.QueryEscape(q)
}
