// Package editor wraps the note body editing surface. Markup is edited as
// text; nothing here interprets it.
package editor

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// Surface is the rich-text block as the rest of the app sees it.
type Surface interface {
	Markup() string
	SetMarkup(string)
}

// Block is a Surface over a bubbles textarea.
type Block struct {
	ta textarea.Model
}

func NewBlock() *Block {
	ta := textarea.New()
	ta.Placeholder = "Start writing..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	return &Block{ta: ta}
}

func (b *Block) Markup() string { return b.ta.Value() }

func (b *Block) SetMarkup(s string) {
	if s != b.ta.Value() {
		b.ta.SetValue(s)
	}
}

func (b *Block) SetSize(w, h int) {
	b.ta.SetWidth(w)
	b.ta.SetHeight(h)
}

func (b *Block) Focus() tea.Cmd { return b.ta.Focus() }

func (b *Block) Blur() { b.ta.Blur() }

func (b *Block) Focused() bool { return b.ta.Focused() }

// Update feeds a message to the textarea and reports whether the markup
// changed.
func (b *Block) Update(msg tea.Msg) (bool, tea.Cmd) {
	before := b.ta.Value()
	var cmd tea.Cmd
	b.ta, cmd = b.ta.Update(msg)
	return b.ta.Value() != before, cmd
}

func (b *Block) View() string { return b.ta.View() }
