package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/flarebyte/manna/internal/scripture"
)

const (
	linkLabel     = "Read commentary on BibleHub"
	noLinkNotice  = "Could not generate commentary link."
	failureNotice = "Failed to retrieve or load verse."
)

// Renderer writes pipeline output to the terminal.
type Renderer interface {
	Verse(rec scripture.VerseRecord) error
	Link(url string) error
	NoLink() error
	Failure() error
	Themes(names []string) error
}

// titleCase is built per call: a cases.Caser must not be shared.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func quote(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, l := range lines {
		lines[i] = "> " + strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}

// Plain renders undecorated text. Output is stable, which makes it the
// renderer for pipes and tests.
type Plain struct {
	w io.Writer
}

// NewPlain returns a Plain renderer writing to w.
func NewPlain(w io.Writer) *Plain { return &Plain{w: w} }

func (p *Plain) Verse(rec scripture.VerseRecord) error {
	_, err := fmt.Fprintf(p.w, "%s\n\n%s\n", rec.Reference, quote(rec.Text))
	return err
}

func (p *Plain) Link(url string) error {
	_, err := fmt.Fprintf(p.w, "\n%s: %s\n", linkLabel, url)
	return err
}

func (p *Plain) NoLink() error {
	_, err := fmt.Fprintf(p.w, "\n%s\n", noLinkNotice)
	return err
}

func (p *Plain) Failure() error {
	_, err := fmt.Fprintln(p.w, failureNotice)
	return err
}

func (p *Plain) Themes(names []string) error {
	if len(names) == 0 {
		_, err := fmt.Fprintln(p.w, "No themes available.")
		return err
	}
	var b strings.Builder
	b.WriteString("Available themes:\n")
	for _, n := range names {
		fmt.Fprintf(&b, "  - %s\n", titleCase(n))
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Markdown renders through glamour, with lipgloss styling for the one-line
// notices.
type Markdown struct {
	w       io.Writer
	tr      *glamour.TermRenderer
	link    lipgloss.Style
	notice  lipgloss.Style
	failure lipgloss.Style
}

// NewMarkdown returns a Markdown renderer. style is "auto" or a glamour
// standard style name; wordWrap 0 disables wrapping.
func NewMarkdown(w io.Writer, style string, wordWrap int) (*Markdown, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wordWrap)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize markdown renderer: %w", err)
	}
	return &Markdown{
		w:       w,
		tr:      tr,
		link:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
		notice:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}, nil
}

func (m *Markdown) render(md string) error {
	out, err := m.tr.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(m.w, out)
	return err
}

func (m *Markdown) Verse(rec scripture.VerseRecord) error {
	return m.render(fmt.Sprintf("### 📖 %s\n\n%s\n", rec.Reference, quote(rec.Text)))
}

func (m *Markdown) Link(url string) error {
	_, err := fmt.Fprintf(m.w, "\n🔍 %s: %s\n", linkLabel, m.link.Render(url))
	return err
}

func (m *Markdown) NoLink() error {
	_, err := fmt.Fprintln(m.w, m.notice.Render("❓ "+noLinkNotice))
	return err
}

func (m *Markdown) Failure() error {
	_, err := fmt.Fprintln(m.w, m.failure.Render("⚠️ "+failureNotice))
	return err
}

func (m *Markdown) Themes(names []string) error {
	if len(names) == 0 {
		return m.render("_No themes available._\n")
	}
	var b strings.Builder
	b.WriteString("### Available themes\n\n")
	for _, n := range names {
		fmt.Fprintf(&b, "- %s\n", titleCase(n))
	}
	return m.render(b.String())
}
