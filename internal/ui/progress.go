package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mapl/internal/buildpipeline"
)

const (
	statusColumn = 12
	minNameWidth = 20
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	busyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// scriptRow is one root script on screen. Imported scripts have no row.
type scriptRow struct {
	path   string
	name   string
	stage  buildpipeline.Stage
	status buildpipeline.Status
	errMsg string
	final  bool
}

func (r *scriptRow) label() string {
	return r.stage.Label(r.status)
}

func (r *scriptRow) style() lipgloss.Style {
	switch r.status {
	case buildpipeline.StatusDone, buildpipeline.StatusCached:
		return okStyle
	case buildpipeline.StatusError:
		return errStyle
	case buildpipeline.StatusWorking:
		return busyStyle
	}
	return idleStyle
}

type progressModel struct {
	title    string
	events   <-chan buildpipeline.Event
	spinner  spinner.Model
	bar      progress.Model
	rows     []scriptRow
	byPath   map[string]int
	pipeline string // подпись текущей стадии всего конвейера
	width    int
	done     bool
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders build progress
// until events is closed. Files are named relative to baseDir when they lie
// inside it.
func NewProgressModel(title string, files []string, baseDir string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(busyStyle))
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for _, file := range files {
		if _, dup := m.byPath[file]; dup {
			continue
		}
		m.byPath[file] = len(m.rows)
		m.rows = append(m.rows, scriptRow{
			path:   file,
			name:   buildpipeline.DisplayName(file, baseDir),
			status: buildpipeline.StatusQueued,
		})
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(buildpipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := m.title
	if m.pipeline != "" {
		header += " (" + m.pipeline + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusColumn-4, minNameWidth)
	for i := range m.rows {
		row := &m.rows[i]
		status := row.style().Render(fmt.Sprintf("%*s", statusColumn, row.label()))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(row.name, nameWidth))
		if row.errMsg != "" {
			fmt.Fprintf(&b, "  %*s %s\n", statusColumn, "", dimStyle.Render(truncate(row.errMsg, nameWidth)))
		}
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	if m.done {
		ok, failed := m.tally()
		fmt.Fprintf(&b, "%d ok, %d failed\n", ok, failed)
	}
	return b.String()
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		if label := ev.Stage.Label(ev.Status); label != "" {
			m.pipeline = label
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	if row.final {
		return nil
	}
	if ev.Stage.Label(ev.Status) != "" {
		row.stage, row.status = ev.Stage, ev.Status
	}
	if ev.Err != nil {
		row.errMsg, _, _ = strings.Cut(ev.Err.Error(), "\n")
	}
	if ev.Status == buildpipeline.StatusError || (ev.Stage == buildpipeline.StageWrite && ev.Status.Finished()) {
		row.final = true
	}
	return m.bar.SetPercent(m.percent())
}

// percent weighs every row by how far its stage got; finished rows count 1.
func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	total := 0.0
	for i := range m.rows {
		if m.rows[i].final {
			total++
		} else {
			total += m.rows[i].stage.Progress()
		}
	}
	return total / float64(len(m.rows))
}

func (m *progressModel) tally() (ok, failed int) {
	for i := range m.rows {
		switch {
		case m.rows[i].status == buildpipeline.StatusError:
			failed++
		case m.rows[i].final:
			ok++
		}
	}
	return ok, failed
}

// truncate shortens value to width display cells, marking the cut with "...".
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
