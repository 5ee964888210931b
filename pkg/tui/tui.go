// Package tui is an interactive front end for the binasc codec: pick a
// conversion, pick a file, and the result is written next to it
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/james-see/binasc/pkg/binasc"
)

var (
	phosphor  = lipgloss.Color("#33FF66")
	amber     = lipgloss.Color("#FFB000")
	lightGray = lipgloss.Color("#C0C0C0")
	dimGray   = lipgloss.Color("#666666")
	panelBg   = lipgloss.Color("#1C1C1C")
	alarmRed  = lipgloss.Color("#FF4040")

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(phosphor).Background(panelBg).Padding(0, 2)
	itemStyle    = lipgloss.NewStyle().Foreground(lightGray).PaddingLeft(2)
	cursorStyle  = lipgloss.NewStyle().Foreground(phosphor).Bold(true).PaddingLeft(2)
	hintStyle    = lipgloss.NewStyle().Foreground(amber).PaddingLeft(4)
	noteStyle    = lipgloss.NewStyle().Foreground(amber).PaddingTop(1)
	failStyle    = lipgloss.NewStyle().Foreground(alarmRed).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(phosphor).Bold(true)
	keysStyle    = lipgloss.NewStyle().Foreground(dimGray).MarginTop(1)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(phosphor).Padding(1, 2)
)

// State is the screen currently shown
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem is one conversion offered by the menu. Decoding items set up
// the codec through Configure; encoding items compile text.
type MenuItem struct {
	Title       string
	Description string
	Input       string
	AllowedExts []string // nil shows every file
	OutputExt   string
	Encode      bool
	Configure   func(c *binasc.Codec)
}

var menuItems = []MenuItem{
	{
		Title: "MIDI → Text", Description: "Decode a Standard MIDI File into commented text",
		Input: "MIDI", AllowedExts: []string{".mid", ".midi", ".smf"}, OutputExt: ".txt",
		Configure: func(c *binasc.Codec) { c.SetMIDI(true); c.SetComments(true) },
	},
	{
		Title: "Binary → Hex", Description: "Dump any file as hex bytes",
		Input: "BINARY", OutputExt: ".hex.txt",
		Configure: func(c *binasc.Codec) {},
	},
	{
		Title: "Binary → Hex + ASCII", Description: "Dump hex bytes with an ASCII comment under each row",
		Input: "BINARY", OutputExt: ".hex.txt",
		Configure: func(c *binasc.Codec) { c.SetComments(true) },
	},
	{
		Title: "Binary → ASCII", Description: "Extract the printable words of a file",
		Input: "BINARY", OutputExt: ".ascii.txt",
		Configure: func(c *binasc.Codec) { c.SetBytes(false) },
	},
	{
		Title: "Text → Binary", Description: "Compile binasc text back into bytes",
		Input: "TEXT", AllowedExts: []string{".txt", ".asc", ".binasc"}, OutputExt: ".bin",
		Encode: true,
	},
	{Title: "Exit", Description: "Leave binasc"},
}

// Model holds the state of the whole program
type Model struct {
	state      State
	cursor     int
	picker     filepicker.Model
	spin       spinner.Model
	item       MenuItem
	inputPath  string
	resultPath string
	outputSize int
	err        error
}

// convertedMsg carries the outcome of performConversion
type convertedMsg struct {
	path string
	size int
	err  error
}

func New() Model {
	picker := filepicker.New()
	picker.CurrentDirectory, _ = os.Getwd()

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = lipgloss.NewStyle().Foreground(phosphor)

	return Model{state: StateMenu, picker: picker, spin: spin}
}

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateFilePicker {
		return m.updatePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.picker.SetHeight(msg.Height - 10)
	case tea.KeyMsg:
		if m.state == StateMenu {
			return m.updateMenu(msg)
		}
		if m.state == StateResult {
			return m.updateResult(msg)
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case convertedMsg:
		m.state = StateResult
		m.resultPath, m.outputSize, m.err = msg.path, msg.size, msg.err
	}
	return m, nil
}

// updatePicker forwards everything to the file picker except the keys
// that leave it
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.state = StateMenu
			return m, nil
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if picked, path := m.picker.DidSelectFile(msg); picked {
		m.inputPath = path
		m.state = StateConverting
		return m, tea.Batch(m.spin.Tick, performConversion(m.item, path))
	}
	return m, cmd
}

func (m Model) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(menuItems) - 1
	switch key.String() {
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		m.cursor = min(m.cursor+1, last)
	case "enter":
		if m.cursor == last {
			return m, tea.Quit
		}
		m.item = menuItems[m.cursor]
		m.picker.AllowedTypes = m.item.AllowedExts
		m.state = StateFilePicker
		return m, m.picker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter", "esc":
		return Model{state: StateMenu, cursor: m.cursor, picker: m.picker, spin: m.spin}, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// outputPath swaps the extension of input for ext, inserting ".out" when
// that would name the input itself
func outputPath(input, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if base+ext == input {
		return base + ".out" + ext
	}
	return base + ext
}

func performConversion(item MenuItem, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return convertedMsg{err: err}
		}

		codec := binasc.New()
		var result []byte
		if item.Encode {
			result, err = codec.EncodeString(string(data))
		} else {
			item.Configure(codec)
			var text string
			text, err = codec.DecodeBytes(data)
			result = []byte(text)
		}
		if err != nil {
			return convertedMsg{err: err}
		}

		out := outputPath(path, item.OutputExt)
		if err := os.WriteFile(out, result, 0644); err != nil {
			return convertedMsg{err: err}
		}
		return convertedMsg{path: out, size: len(result)}
	}
}

// panel draws a bordered box with a heading over body
func panel(heading, body string) string {
	return panelStyle.Render(headingStyle.Render(heading) + "\n\n" + body)
}

func (m Model) View() string {
	var body, keys string
	switch m.state {
	case StateMenu:
		body, keys = m.viewMenu(), "↑/↓ or j/k: move • enter: choose • q: quit"
	case StateFilePicker:
		body, keys = m.viewPicker(), "enter: open • esc: back • q: quit"
	case StateConverting:
		body = m.viewConverting()
	case StateResult:
		body, keys = m.viewResult(), "enter: back to menu • q: quit"
	}

	var b strings.Builder
	b.WriteString(banner())
	b.WriteString("\n")
	b.WriteString(body)
	if keys != "" {
		b.WriteString("\n")
		b.WriteString(keysStyle.Render(keys))
	}
	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder
	for i, item := range menuItems {
		if i != m.cursor {
			b.WriteString(itemStyle.Render("  " + item.Title))
			b.WriteString("\n")
			continue
		}
		b.WriteString(cursorStyle.Render("› " + item.Title))
		b.WriteString("\n")
		b.WriteString(hintStyle.Render(item.Description))
		b.WriteString("\n")
	}
	return panel(" CONVERSION ", b.String())
}

func (m Model) viewPicker() string {
	return headingStyle.Render(fmt.Sprintf(" OPEN %s FILE ", m.item.Input)) + "\n\n" + m.picker.View()
}

func (m Model) viewConverting() string {
	body := fmt.Sprintf("%s %s\n", m.spin.View(), filepath.Base(m.inputPath)) +
		noteStyle.Render(m.item.Title)
	return panel(" WORKING ", body)
}

func (m Model) viewResult() string {
	if m.err != nil {
		return panel(" FAILED ", failStyle.Render("✗ "+m.err.Error()))
	}
	body := okStyle.Render("✓ "+m.item.Title) + "\n\n" +
		fmt.Sprintf("from %s\n", filepath.Base(m.inputPath)) +
		fmt.Sprintf("to   %s (%s)", filepath.Base(m.resultPath), humanize.Bytes(uint64(m.outputSize)))
	return panel(" DONE ", body)
}

func banner() string {
	art := `
   ____ ___ _   _    _    ____   ____
  | __ )_ _| \ | |  / \  / ___| / ___|
  |  _ \| ||  \| | / _ \ \___ \| |
  | |_) | || |\  |/ ___ \ ___) | |___
  |____/___|_| \_/_/   \_\____/ \____|
`
	return lipgloss.NewStyle().Foreground(phosphor).Render(art)
}

// Run takes over the terminal until the user quits
func Run() error {
	_, err := tea.NewProgram(New(), tea.WithAltScreen()).Run()
	return err
}
