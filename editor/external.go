package editor

import (
	"fmt"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
)

// ExternalDoneMsg carries the markup back from $EDITOR.
type ExternalDoneMsg struct {
	NoteID string
	Markup string
	Err    error
}

func editorCommand() string {
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	// prefer nvim if available
	if p, err := exec.LookPath("nvim"); err == nil {
		return p
	}
	if p, err := exec.LookPath("vi"); err == nil {
		return p
	}
	return "ed"
}

// External suspends the program, opens the markup in $EDITOR and delivers
// the result as an ExternalDoneMsg.
func External(noteID, initial string) tea.Cmd {
	tmp, err := os.CreateTemp("", "smartnotes-*.html")
	if err != nil {
		return func() tea.Msg { return ExternalDoneMsg{NoteID: noteID, Err: err} }
	}
	tmpName := tmp.Name()
	_, werr := tmp.WriteString(initial)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmpName)
		return func() tea.Msg {
			return ExternalDoneMsg{NoteID: noteID, Err: fmt.Errorf("write temp file: %v %v", werr, cerr)}
		}
	}

	cmd := exec.Command(editorCommand(), tmpName)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer os.Remove(tmpName)
		if err != nil {
			return ExternalDoneMsg{NoteID: noteID, Err: err}
		}
		b, err := os.ReadFile(tmpName)
		if err != nil {
			return ExternalDoneMsg{NoteID: noteID, Err: err}
		}
		return ExternalDoneMsg{NoteID: noteID, Markup: string(b)}
	})
}
