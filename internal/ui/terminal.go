package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/lehigh-university-libraries/letterbox/internal/models"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Terminal renders every UI handle as lines on a pair of writers
type Terminal struct {
	out    io.Writer
	errOut io.Writer
	styled bool

	mu              sync.Mutex
	folderName      string
	enabled         bool
	progressVisible bool
	cards           int
}

// NewTerminal writes results to out and alerts to errOut. Styling adds
// colors and card borders.
func NewTerminal(out, errOut io.Writer, styled bool) *Terminal {
	return &Terminal{out: out, errOut: errOut, styled: styled, enabled: true}
}

// State exposes the terminal as injectable UI handles
func (t *Terminal) State() *State {
	return &State{
		FolderName: t,
		Trigger:    t,
		Progress:   t,
		Results:    t,
		Alerts:     t,
	}
}

func (t *Terminal) style(s lipgloss.Style, text string) string {
	if !t.styled {
		return text
	}
	return s.Render(text)
}

// SetText prints the selected folder name
func (t *Terminal) SetText(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.folderName = s
	fmt.Fprintf(t.out, "%s %s\n", t.style(labelStyle, "Folder:"), s)
}

// FolderName returns the last displayed folder name
func (t *Terminal) FolderName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.folderName
}

// SetEnabled records whether the upload trigger accepts input
func (t *Terminal) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

// Enabled reports whether the trigger is currently enabled
func (t *Terminal) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Show prints the progress line for an upload of files totalling bytes
func (t *Terminal) Show(files int, bytes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progressVisible = true
	fmt.Fprintln(t.out, t.style(mutedStyle, fmt.Sprintf("Uploading %d files (%s)...", files, humanize.Bytes(uint64(bytes)))))
}

// Hide marks the progress line as finished
func (t *Terminal) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progressVisible = false
}

// ProgressVisible reports whether the progress line is showing
func (t *Terminal) ProgressVisible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progressVisible
}

// Clear forgets previously rendered cards; terminal output itself is append only
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cards = 0
}

// Render prints one card per word, under letter headings for grouped results
func (t *Terminal) Render(res models.Results) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sections := BuildSections(res)
	if len(sections) == 0 {
		fmt.Fprintln(t.out, t.style(mutedStyle, "No results returned"))
		return
	}

	for _, section := range sections {
		if section.Heading != "" {
			fmt.Fprintln(t.out, t.style(headingStyle, section.Heading))
		}
		for _, card := range section.Cards {
			fmt.Fprintln(t.out, t.renderCard(card))
			t.cards++
		}
	}
}

// Cards returns the number of cards rendered since the last Clear
func (t *Terminal) Cards() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cards
}

func (t *Terminal) renderCard(card Card) string {
	var lines []string
	if card.Letter != "" {
		lines = append(lines, t.style(labelStyle, "Letter:")+" "+card.Letter)
	}
	lines = append(lines,
		t.style(labelStyle, "Word:")+" "+card.Word,
		t.style(labelStyle, "Image:")+" "+t.style(linkStyle, ImageLinkText)+" "+card.ImageURL,
	)
	body := strings.Join(lines, "\n")
	if !t.styled {
		return body + "\n"
	}
	return cardStyle.Render(body)
}

// Alert writes msg to the error writer
func (t *Terminal) Alert(msg string) {
	fmt.Fprintln(t.errOut, t.style(alertStyle, msg))
}
