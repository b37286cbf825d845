package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/teemow/glance/internal/auth"
	"github.com/teemow/glance/internal/tasks"
	"github.com/teemow/glance/internal/widgets"
)

// Renderer renders views with a theme.
type Renderer struct {
	theme Theme
}

// New returns a renderer with the default theme.
func New() *Renderer {
	return &Renderer{theme: DefaultTheme()}
}

// WithTheme returns a renderer using theme.
func WithTheme(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Dashboard renders the greeting followed by the three widget panels. errs
// lists widgets that failed to load.
func (r *Renderer) Dashboard(v widgets.View, errs []error) string {
	header := r.theme.TitleStyle.Render(greetingLine(v))

	panels := []string{
		r.panel("Tasks", r.taskLines(v.Tasks)),
		r.panel("Upcoming", r.dayLines(v.Days)),
		r.panel("Starred files", r.fileLines(v.Files)),
	}

	parts := []string{header, ""}
	parts = append(parts, panels...)
	for _, err := range errs {
		parts = append(parts, r.theme.ErrorStyle.Render("! "+err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// TaskList renders the tasks of one list.
func (r *Renderer) TaskList(title string, items []tasks.Task, pending int) string {
	heading := fmt.Sprintf("%s (%d open)", title, pending)
	return r.panel(heading, r.itemLines(items))
}

// Session renders the authentication state.
func (r *Renderer) Session(s auth.Session) string {
	lines := []string{"State: " + string(s.State)}
	if s.Identity != nil {
		lines = append(lines, fmt.Sprintf("User:  %s <%s>", s.Identity.Name, s.Identity.Email))
	}
	if s.ExpiresAt != nil {
		lines = append(lines, "Expires: "+s.ExpiresAt.Local().Format("Mon, Jan 2 15:04"))
	}
	if s.Scope != "" {
		lines = append(lines, r.theme.MutedStyle.Render("Scope: "+s.Scope))
	}
	return r.panel("Google session", lines)
}

// Fprint writes s followed by a newline.
func Fprint(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}

func greetingLine(v widgets.View) string {
	if v.User != nil && v.User.Name != "" {
		first, _, _ := strings.Cut(v.User.Name, " ")
		return v.Greeting + ", " + first
	}
	return v.Greeting
}

func (r *Renderer) panel(title string, lines []string) string {
	body := append([]string{r.theme.HeadingStyle.Render(title)}, lines...)
	return r.theme.PanelStyle.Render(strings.Join(body, "\n"))
}

func (r *Renderer) taskLines(v widgets.TasksView) []string {
	if len(v.Lists) == 0 {
		return []string{r.theme.MutedStyle.Render("No task lists")}
	}
	var lines []string
	for _, l := range v.Lists {
		if l.ID == v.Selected {
			lines = append(lines, fmt.Sprintf("%s (%d open)", l.Title, v.Pending))
		}
	}
	return append(lines, r.itemLines(v.Items)...)
}

func (r *Renderer) itemLines(items []tasks.Task) []string {
	if len(items) == 0 {
		return []string{r.theme.MutedStyle.Render("Nothing to do")}
	}
	lines := make([]string, 0, len(items))
	for _, t := range items {
		if t.IsCompleted() {
			lines = append(lines, "[x] "+r.theme.DoneStyle.Render(t.Title)+r.theme.MutedStyle.Render("  "+t.ID))
			continue
		}
		lines = append(lines, "[ ] "+t.Title+r.theme.MutedStyle.Render("  "+t.ID))
	}
	return lines
}

func (r *Renderer) dayLines(days []widgets.DayView) []string {
	if len(days) == 0 {
		return []string{r.theme.MutedStyle.Render("No upcoming events")}
	}
	var lines []string
	for _, d := range days {
		lines = append(lines, r.theme.TitleStyle.Render(d.Label))
		for _, e := range d.Events {
			line := fmt.Sprintf("  %-8s %s %s", e.Time, r.theme.eventStyle(e.Color).Render("●"), e.Summary)
			if e.Location != "" {
				line += r.theme.MutedStyle.Render(" @ " + e.Location)
			}
			lines = append(lines, line)
		}
	}
	return lines
}

func (r *Renderer) fileLines(files []widgets.FileView) []string {
	if len(files) == 0 {
		return []string{r.theme.MutedStyle.Render("No starred files")}
	}
	lines := make([]string, 0, len(files))
	for _, f := range files {
		meta := string(f.Category) + ", " + f.ModifiedLabel
		if f.SizeLabel != "" {
			meta += ", " + f.SizeLabel
		}
		lines = append(lines, f.Name+r.theme.MutedStyle.Render("  "+meta))
	}
	return lines
}
