package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"fwupload/internal/domain"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseCollecting Phase = iota
	PhaseBuilding
	PhaseDone
	PhaseError
)

// Messages sent by the running upload
type (
	CollectedMsg struct {
		Files domain.FilteredFileSet
	}
	EntryMsg struct {
		Current int
		Total   int
		Name    string
	}
	DoneMsg struct {
		Report domain.Report
	}
	ErrorMsg struct {
		Err error
	}
	tickMsg time.Time
)

// Config for the TUI
type Config struct {
	Input   string
	Target  string
	Verbose bool
}

// Model is the main TUI model
type Model struct {
	config       Config
	Phase        Phase
	Files        domain.FilteredFileSet
	Report       domain.Report
	spinner      spinner.Model
	progress     progress.Model
	entryCurrent int
	entryTotal   int
	currentFile  string
	Err          error
	Quitting     bool
	width        int
	height       int
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseCollecting,
		spinner:  s,
		progress: p,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(min(msg.Width-20, 60), 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		case "enter":
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case CollectedMsg:
		m.Files = msg.Files
		m.entryTotal = msg.Files.Len()
		m.Phase = PhaseBuilding
		return m, nil

	case EntryMsg:
		m.entryCurrent = msg.Current
		m.entryTotal = msg.Total
		m.currentFile = msg.Name
		return m, nil

	case DoneMsg:
		m.Phase = PhaseDone
		m.Report = msg.Report
		return m, m.progress.SetPercent(1)

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseCollecting || m.Phase == PhaseBuilding {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseBuilding && m.entryTotal > 0 {
			return m, tea.Batch(m.progress.SetPercent(float64(m.entryCurrent)/float64(m.entryTotal)), tickCmd())
		}
		if m.Phase == PhaseCollecting || m.Phase == PhaseBuilding {
			return m, tickCmd()
		}
	}

	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseCollecting:
		b.WriteString(fmt.Sprintf("%s Collecting classpath...", m.spinner.View()))
	case PhaseBuilding:
		b.WriteString(m.renderCollected())
		b.WriteString("\n")
		b.WriteString(m.renderBuilding())
	case PhaseDone:
		b.WriteString(m.renderCollected())
		b.WriteString("\n")
		b.WriteString(m.renderCompletion())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(iconUpload + " fwupload")
	subtitle := subtitleStyle.Render("Framework classpath bundler")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Input:  %s", iconFolder, shortenPath(m.config.Input))),
		dimStyle.Render(fmt.Sprintf("%s Target: %s", iconArrow, m.config.Target)),
	)
}

func (m Model) renderCollected() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Collected Files"))
	b.WriteString("\n\n")

	files := m.Files.Files()
	if len(files) == 0 {
		b.WriteString(dimStyle.Render("  No files collected"))
		b.WriteString("\n")
	} else {
		for _, line := range formatFileList(files, 4) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Files:"), statValueStyle.Render(fmt.Sprintf("%d", m.Files.Len()))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Whitelisted:"), dimStyle.Render(fmt.Sprintf("%s %d", iconSkipped, len(m.Files.Whitelisted())))))
	blacklisted := len(m.Files.Blacklisted())
	style := dimStyle
	if blacklisted > 0 {
		style = warningStyle
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Blacklisted:"), style.Render(fmt.Sprintf("%s %d", iconBlocked, blacklisted))))

	if m.config.Verbose && blacklisted > 0 {
		b.WriteString("\n")
		for _, path := range m.Files.Blacklisted() {
			b.WriteString(fmt.Sprintf("  %s %s\n", warningStyle.Render(iconBlocked), dimStyle.Render(path)))
		}
	}

	return b.String()
}

func (m Model) renderBuilding() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Building Archive"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.entryTotal > 0 {
		percent = float64(m.entryCurrent) / float64(m.entryTotal)
	}

	b.WriteString(fmt.Sprintf("  %s Packaging and publishing...\n\n", m.spinner.View()))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.entryCurrent, m.entryTotal)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if m.currentFile != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n", iconArrow, fileNameStyle.Render(m.currentFile)))
	}

	return b.String()
}

func (m Model) renderCompletion() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Upload Complete"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %s %s\n\n", successStyle.Render(iconSuccess), successStyle.Render("Archive published successfully!")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Entries:"), statValueStyle.Render(fmt.Sprintf("%d", len(m.Report.Entries)))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Archive size:"), statValueStyle.Render(fmt.Sprintf("%d bytes", m.Report.BytesStored))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Framework path:"), jarStyle.Render(m.Report.Target.Link())))

	return b.String()
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.Err.Error()))

	return highlightBoxStyle.
		BorderForeground(errorColor).
		Render(fmt.Sprintf("%s %s", icon, msg))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseCollecting, PhaseBuilding:
		help = "Press q to abort"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

// formatFileList shows the first and last entries of a long listing.
func formatFileList(paths []string, maxItems int) []string {
	if len(paths) <= maxItems {
		lines := make([]string, 0, len(paths))
		for _, path := range paths {
			lines = append(lines, formatFileItem(path))
		}
		return lines
	}

	half := maxItems / 2
	lines := make([]string, 0, maxItems+1)
	for _, path := range paths[:half] {
		lines = append(lines, formatFileItem(path))
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("... %d more files ...", len(paths)-maxItems)))
	for _, path := range paths[len(paths)-half:] {
		lines = append(lines, formatFileItem(path))
	}
	return lines
}

func formatFileItem(path string) string {
	return fmt.Sprintf("%s %s  %s", jarStyle.Render(iconJar), fileNameStyle.Render(domain.EntryName(path)), dimStyle.Render(shortenPath(path)))
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
