package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/evcraddock/condour/internal/scan"
)

const (
	barWidth       = 30
	reportComments = 10
	titleWidth     = 60
	commentWidth   = 100
	communityWidth = 20
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#22C55E"))

	sampleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FACC15"))

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	mutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A1A1AA"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printReport prints a scan result in text format.
func printReport(w io.Writer, r *scan.Result) error {
	heading := titleStyle.Render("Condour report: " + r.ProductName)
	if r.Synthetic() {
		heading += " " + sampleStyle.Render("[SAMPLE DATA]")
	}
	fmt.Fprintln(w, heading)
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("scan %s · %s", r.ID, r.ScannedAt.Format(time.RFC3339))))
	fmt.Fprintln(w)

	if r.Synthetic() {
		fmt.Fprintln(w, sampleStyle.Render("No live discussion could be reached. Showing sample data."))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d discussions · %s comments · avg score %.0f · %d communities\n\n",
		r.Stats.TotalPosts, humanize.Comma(int64(r.Stats.TotalComments)), r.Stats.AvgScore, len(r.Stats.Communities))

	fmt.Fprintln(w, headerStyle.Render("Sentiment"))
	fmt.Fprintf(w, "  positive %3d%% %s\n", r.Sentiment.PositivePct, positiveStyle.Render(sentimentBar(r.Sentiment.PositivePct)))
	fmt.Fprintf(w, "  negative %3d%% %s\n", r.Sentiment.NegativePct, negativeStyle.Render(sentimentBar(r.Sentiment.NegativePct)))
	fmt.Fprintf(w, "  neutral  %3d%% %s\n\n", r.Sentiment.NeutralPct, neutralStyle.Render(sentimentBar(r.Sentiment.NeutralPct)))

	if len(r.Posts) == 0 {
		fmt.Fprintln(w, "No discussions found.")
		return nil
	}

	fmt.Fprintln(w, headerStyle.Render("Discussions"))
	if err := printPostTable(w, r); err != nil {
		return err
	}

	if len(r.Comments) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Top comments"))
		for i, c := range r.Comments {
			if i == reportComments {
				fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  … %d more", len(r.Comments)-reportComments)))
				break
			}
			indent := strings.Repeat("  ", c.Depth+1)
			meta := fmt.Sprintf("u/%s ↑%d r/%s", c.Author, c.Score, c.Community)
			fmt.Fprintf(w, "%s%s %s\n", indent, mutedStyle.Render(meta), truncate(oneLine(c.Body), commentWidth))
		}
	}
	return nil
}

// printPostTable prints ranked posts as a formatted table.
func printPostTable(w io.Writer, r *scan.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "SCORE\tCOMMENTS\tCOMMUNITY\tAGE\tTITLE"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "-----\t--------\t---------\t---\t-----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range r.Posts {
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			humanize.Comma(int64(p.Score)), p.NumComments, truncate("r/"+p.Community, communityWidth),
			age(p.Created), truncate(p.Title, titleWidth)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// formatEvent renders a progress event as a single line.
func formatEvent(e scan.Event) string {
	prefix := "·"
	style := mutedStyle
	switch e.Level {
	case scan.LevelSuccess:
		prefix, style = "✓", positiveStyle
	case scan.LevelWarning:
		prefix, style = "!", warningStyle
	case scan.LevelError:
		prefix, style = "✗", negativeStyle
	}
	return style.Render(prefix + " " + e.Message)
}

// sentimentBar draws a bar proportional to pct.
func sentimentBar(pct int) string {
	pct = max(0, min(pct, 100))
	return strings.Repeat("█", pct*barWidth/100)
}

// age formats a unix timestamp as a relative time.
func age(created float64) string {
	if created <= 0 {
		return "-"
	}
	return humanize.Time(time.Unix(int64(created), 0))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
