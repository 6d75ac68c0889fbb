// Package display renders the aggregated today-task set for the
// terminal.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/teemow/ticktoday/internal/ticktick"
	"github.com/teemow/ticktoday/internal/today"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(52)

	titleStyle = lipgloss.NewStyle().Bold(true)

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
)

// Renderer writes formatted task cards to a writer
type Renderer struct {
	w   io.Writer
	now func() time.Time
}

// RendererOption configures a Renderer
type RendererOption func(*Renderer)

// WithClock overrides the time source used for relative date labels.
// Used by tests.
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer creates a Renderer writing to w
func NewRenderer(w io.Writer, opts ...RendererOption) *Renderer {
	r := &Renderer{
		w:   w,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the whole result set: a header, one card per task and
// a warning line per skipped project
func (r *Renderer) Render(result *today.Result) {
	switch {
	case len(result.Entries) == 0 && len(result.Skipped) > 0:
		// Some projects could not be fetched, so an empty result is
		// inconclusive; no celebration
		fmt.Fprintln(r.w, "No tasks due today in the projects that could be fetched.")
	case len(result.Entries) == 0:
		fmt.Fprintln(r.w, "🎉 No tasks due today! You're all caught up!")
	default:
		fmt.Fprintln(r.w, headerStyle.Render(fmt.Sprintf("📅 You have %d task(s) for today:", len(result.Entries))))
		fmt.Fprintln(r.w)
		for _, entry := range result.Entries {
			fmt.Fprintln(r.w, r.renderCard(entry))
		}
	}

	for _, skipped := range result.Skipped {
		fmt.Fprintln(r.w, warnStyle.Render(fmt.Sprintf("⚠️  Skipped project %s: %v", skipped.Project.Name, skipped.Err)))
	}
}

// renderCard formats a single task as a bordered card
func (r *Renderer) renderCard(entry today.Entry) string {
	task := entry.Task
	var b strings.Builder

	b.WriteString(titleStyle.Render(priorityMarker(task.Priority) + " " + task.Title))
	b.WriteString("\n📁 Project: " + entry.Project.Name)

	if task.Content != "" {
		b.WriteString("\n📝 " + task.Content)
	}
	if task.Desc != "" {
		b.WriteString("\n📄 " + task.Desc)
	}
	if task.DueDate != nil {
		b.WriteString("\n⏰ Due: " + r.formatTime(*task.DueDate, task.AllDay))
	}
	if task.StartDate != nil {
		b.WriteString("\n🚀 Start: " + r.formatTime(*task.StartDate, task.AllDay))
	}

	if len(task.Items) > 0 {
		b.WriteString("\n📋 Subtasks:")
		for _, item := range task.Items {
			marker := "☐"
			if item.Completed {
				marker = "✅"
			}
			b.WriteString("\n   " + marker + " " + item.Title)
		}
	}

	return cardStyle.Render(b.String())
}

// priorityMarker returns the marker for a task priority
func priorityMarker(p ticktick.Priority) string {
	switch p {
	case ticktick.PriorityHigh:
		return "🔴"
	case ticktick.PriorityMedium:
		return "🟡"
	case ticktick.PriorityLow:
		return "🔵"
	default:
		return "⚪"
	}
}

// formatTime renders a timestamp relative to today: "Today 5:00 PM",
// "Tomorrow 9:00 AM" or "Jun 02 9:00 AM". All-day entries drop the
// clock time and keep their nominal date, matching the due-today
// predicate.
func (r *Renderer) formatTime(ts time.Time, allDay bool) string {
	now := r.now()
	local := ts
	if !allDay {
		local = ts.In(now.Location())
	}

	var day string
	switch {
	case sameDate(local, now):
		day = "Today"
	case sameDate(local, now.AddDate(0, 0, 1)):
		day = "Tomorrow"
	default:
		day = local.Format("Jan 02")
	}

	if allDay {
		return day
	}
	return day + " " + local.Format("3:04 PM")
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
