package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wsruntime "github.com/gosuda/wsemu/runtime"
)

const maxLogLines = 200

type model struct {
	cfg     appConfig
	em      *wsruntime.Emulator
	input   textinput.Model
	width   int
	height  int
	status  string
	running bool
	logs    []string
	seen    int
}

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func newModel(cfg appConfig) model {
	ti := textinput.New()
	ti.Prompt = "ticks> "
	ti.Placeholder = strconv.Itoa(max(cfg.ticks, 1))
	ti.CharLimit = 9
	ti.Focus()
	return model{
		cfg:    cfg,
		input:  ti,
		status: "starting",
	}
}

func startEmulator(cfg appConfig) tea.Cmd {
	return func() tea.Msg {
		em, err := openEmulator(cfg)
		return emuStartedMsg{em: em, err: err}
	}
}

func tickCmd(em *wsruntime.Emulator, n int) tea.Cmd {
	return func() tea.Msg {
		ran := 0
		var errs []error
		for ; ran < n; ran++ {
			if err := em.TickOne(); err != nil {
				errs = append(errs, fmt.Errorf("tick %d: %w", em.Ticks()-1, err))
			}
		}
		if len(errs) > 0 {
			return emuTickedMsg{ran: ran, err: errs[len(errs)-1]}
		}
		return emuTickedMsg{ran: ran}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, startEmulator(m.cfg))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case emuStartedMsg:
		if msg.err != nil {
			m.status = "failed"
			m.appendLog(errStyle.Render(msg.err.Error()))
			return m, nil
		}
		m.em = msg.em
		m.status = "ready"
		return m, nil

	case emuTickedMsg:
		m.running = false
		m.pullLogs()
		if msg.err != nil {
			m.appendLog(errStyle.Render(msg.err.Error()))
		}
		m.status = fmt.Sprintf("ran %d ticks, clock %.3fs", msg.ran, m.em.Clock())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.em != nil {
				if err := saveEmulator(m.cfg, m.em); err != nil {
					m.appendLog(errStyle.Render(err.Error()))
				}
			}
			return m, tea.Quit
		case tea.KeyEnter:
			if m.em == nil || m.running {
				return m, nil
			}
			n := max(m.cfg.ticks, 1)
			if raw := strings.TrimSpace(m.input.Value()); raw != "" {
				v, err := strconv.Atoi(raw)
				if err != nil || v <= 0 {
					m.status = fmt.Sprintf("invalid tick count %q", raw)
					return m, nil
				}
				n = v
			}
			m.input.SetValue("")
			m.running = true
			m.status = fmt.Sprintf("running %d ticks", n)
			return m, tickCmd(m.em, n)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "initializing..."
	}
	half := max(m.width/2-2, 10)
	bodyHeight := max(m.height-6, 3)

	vars := paneStyle.Width(half).Height(bodyHeight).Render(
		titleStyle.Render("variables") + "\n" + clipLines(m.variableLines(), bodyHeight-1))
	logs := paneStyle.Width(half).Height(bodyHeight).Render(
		titleStyle.Render("log") + "\n" + clipLines(m.logs, bodyHeight-1))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, vars, logs),
		inputStyle.Render(m.input.View()),
		statusStyle.Render(m.status+"  (enter: run, esc: quit)"),
	)
}

func (m *model) variableLines() []string {
	if m.em == nil {
		return nil
	}
	vars := m.em.Variables()
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, k := range names {
		lines = append(lines, fmt.Sprintf("%s = %s", k, vars[k]))
	}
	active := m.em.Active()
	running := make([]string, 0, len(active))
	for name := range active {
		running = append(running, name)
	}
	sort.Strings(running)
	for _, name := range running {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("[%s] depth %d", name, active[name])))
	}
	return lines
}

// pullLogs copies messages logged since the last pull.
func (m *model) pullLogs() {
	all := m.em.Logs()
	for _, line := range all[m.seen:] {
		m.appendLog(line)
	}
	m.seen = len(all)
}

func (m *model) appendLog(text string) {
	m.logs = append(m.logs, text)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

// clipLines keeps the last n lines.
func clipLines(lines []string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
