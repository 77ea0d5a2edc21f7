package model

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/glamour"
)

func renderMarkdown(md string, width int, dark bool) (string, error) {
	if width < 20 {
		width = 20
	}
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func renderMarkdownToANSI(md string, width int) string {
	if width < 20 {
		width = 20
	}
	return string(markdown.Render(md, width, 0))
}

// renderReply renders an assistant reply, caching by text and width since
// the transcript is redrawn on every frame.
func (m *Model) renderReply(text string, width int) string {
	key := fmt.Sprintf("%t:%d:%s", m.st.Dark, width, text)
	if out, ok := m.renderCache[key]; ok {
		return out
	}
	out, err := renderMarkdown(text, width, m.st.Dark)
	if err != nil {
		m.deps.Log.Debug().Err(err).Msg("glamour render failed")
		out = renderMarkdownToANSI(text, width)
	}
	out = strings.TrimRight(out, "\n")
	m.renderCache[key] = out
	return out
}
