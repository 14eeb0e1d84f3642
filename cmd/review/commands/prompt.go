// ABOUTME: Line input for the edit session: a bubbletea prompt on terminals
// ABOUTME: Falls back to a bufio scanner when stdin is piped or redirected
package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

const maxHistory = 100

// lineReader yields one command line at a time; io.EOF ends input
type lineReader interface {
	ReadLine() (string, error)
}

// newLineReader picks the bubbletea prompt when in is a terminal
func newLineReader(in io.Reader, out io.Writer, prompt string) lineReader {
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return &teaReader{in: f, out: out, prompt: prompt}
	}
	return &scanReader{scanner: bufio.NewScanner(in), out: out, prompt: prompt}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// scanReader reads piped input line by line
type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

func (r *scanReader) ReadLine() (string, error) {
	if r.prompt != "" {
		fmt.Fprint(r.out, r.prompt)
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// teaReader runs a single-line bubbletea program per read, with history
type teaReader struct {
	in      io.Reader
	out     io.Writer
	prompt  string
	history []string
}

func (r *teaReader) ReadLine() (string, error) {
	p := tea.NewProgram(newInputModel(r.prompt, r.history), tea.WithInput(r.in), tea.WithOutput(r.out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(inputModel)
	if !ok {
		return "", fmt.Errorf("unexpected prompt model %T", final)
	}
	if m.eof {
		return "", io.EOF
	}

	line := strings.TrimSpace(m.input.Value())
	r.remember(line)
	return line, nil
}

// remember appends line to history, skipping blanks and repeats of the last entry
func (r *teaReader) remember(line string) {
	if line == "" || (len(r.history) > 0 && r.history[len(r.history)-1] == line) {
		return
	}
	r.history = append(r.history, line)
	if len(r.history) > maxHistory {
		r.history = r.history[1:]
	}
}

// inputModel is the bubbletea model behind one prompt
type inputModel struct {
	input   textinput.Model
	history []string
	// index into history while browsing, -1 when editing a fresh line
	index   int
	pending string
	done    bool
	eof     bool
}

func newInputModel(prompt string, history []string) inputModel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.CharLimit = 1024
	ti.Focus()
	return inputModel{input: ti, history: history, index: -1}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit

		case tea.KeyCtrlC:
			// Drops the current line, the session keeps going
			m.input.SetValue("")
			m.done = true
			return m, tea.Quit

		case tea.KeyCtrlD:
			m.input.SetValue("")
			m.done = true
			m.eof = true
			return m, tea.Quit

		case tea.KeyUp:
			if len(m.history) == 0 {
				return m, nil
			}
			if m.index == -1 {
				m.pending = m.input.Value()
				m.index = len(m.history) - 1
			} else if m.index > 0 {
				m.index--
			}
			m.input.SetValue(m.history[m.index])
			m.input.CursorEnd()
			return m, nil

		case tea.KeyDown:
			if m.index == -1 {
				return m, nil
			}
			if m.index < len(m.history)-1 {
				m.index++
				m.input.SetValue(m.history[m.index])
			} else {
				m.index = -1
				m.input.SetValue(m.pending)
			}
			m.input.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		// Leave the submitted line on screen
		return m.input.Prompt + m.input.Value() + "\n"
	}
	return m.input.View()
}
