package tui

import (
	"fmt"
	"math"
	"strings"

	"alfredoptarigan/vocalize/internal/models"
	"alfredoptarigan/vocalize/internal/rubric"
)

const barWidth = 20

// history tracks which versions are expanded. The most recently completed
// attempt opens by itself and collapses the rest; everything else is the
// user's choice.
type history struct {
	attempts        []models.Attempt
	expanded        map[int]bool
	latestCompleted int
}

func newHistory() *history {
	return &history{expanded: map[int]bool{}}
}

// sync replaces the attempt list, newest first, and applies auto-expansion.
func (h *history) sync(attempts []models.Attempt) {
	ordered := make([]models.Attempt, len(attempts))
	for i := range attempts {
		ordered[len(attempts)-1-i] = attempts[i]
	}
	h.attempts = ordered

	latest := 0
	for _, a := range ordered {
		if a.Status == models.StatusCompleted && a.Version > latest {
			latest = a.Version
		}
	}
	if latest > h.latestCompleted {
		h.latestCompleted = latest
		h.expanded = map[int]bool{latest: true}
	}
}

func (h *history) toggle(version int) {
	h.expanded[version] = !h.expanded[version]
}

func (h *history) isExpanded(version int) bool {
	return h.expanded[version]
}

func renderBar(value, limit int) string {
	if limit <= 0 {
		return strings.Repeat("░", barWidth)
	}
	filled := int(math.Round(float64(value) / float64(limit) * barWidth))
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return barFilledStyle.Render(strings.Repeat("█", filled)) + barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

func formatTenths(v float64) string {
	return fmt.Sprintf("%.1f", math.Round(v*10)/10)
}

func attemptHeader(a *models.Attempt) string {
	var result string
	switch {
	case a.ScoreReport != nil:
		result = scoreStyle.Render(fmt.Sprintf("%.2f / 100", a.ScoreReport.FinalScore))
	case a.Status == models.StatusFailed:
		result = errorStyle.Render("failed")
	default:
		result = mutedStyle.Render("scoring...")
	}
	return fmt.Sprintf("Version #%d  %s  %s", a.Version, mutedStyle.Render(a.CreatedAt.Local().Format("2006-01-02 15:04:05")), result)
}

func renderAttemptBody(a *models.Attempt, clipLocation string) string {
	var b strings.Builder

	transcript := "(no transcript)"
	if a.Transcript != nil {
		transcript = *a.Transcript
	}
	b.WriteString(labelStyle.Render("Transcript"))
	b.WriteString("\n")
	b.WriteString(transcript)
	b.WriteString("\n")
	if clipLocation != "" {
		b.WriteString(labelStyle.Render("Clip") + " " + mutedStyle.Render(clipLocation))
		b.WriteString("\n")
	}

	if a.ErrorMessage != nil {
		b.WriteString(errorStyle.Render(*a.ErrorMessage))
		b.WriteString("\n")
	}

	if a.ScoreReport != nil {
		for _, c := range rubric.Categories {
			b.WriteString("\n")
			fmt.Fprintf(&b, "%s  %s / 10\n", labelStyle.Render(c.String()), formatTenths(a.ScoreReport.Normalized(c)))
			for _, s := range a.ScoreReport.SubScores(c) {
				fmt.Fprintf(&b, "  %-24s %s %d/%d\n", s.Name, renderBar(s.Score, s.Max), s.Score, s.Max)
			}
		}
	}

	if len(a.Suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Suggestions"))
		b.WriteString("\n")
		for _, s := range a.Suggestions {
			fmt.Fprintf(&b, "• %s %s\n", mutedStyle.Render("["+s.Category.String()+"]"), s.Text)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
