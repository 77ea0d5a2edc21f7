package model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/electr1fy0/smartnotes/markup"
	"github.com/electr1fy0/smartnotes/notes"
	"github.com/electr1fy0/smartnotes/workspace"
)

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var main string
	switch {
	case m.overlay != overlayNone:
		main = m.overlayView()
	case m.st.Mode == workspace.ModeEditor:
		main = m.editorView()
	default:
		main = m.gridView()
	}
	main = lipgloss.NewStyle().
		Width(m.mainWidth()).
		Height(m.gridHeight()).
		MaxHeight(m.gridHeight()).
		Render(main)

	cols := []string{m.sidebarView(), main}
	if m.chatOpen {
		cols = append(cols, m.chatPanelView())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		m.footerView(),
	)
}

func (m Model) headerView() string {
	folder := "All Notes"
	if m.st.ActiveFolderID != notes.AllFolders {
		folder = m.st.Library.FolderName(m.st.ActiveFolderID)
	}
	parts := []string{m.styles.title.Render("Smart Notes"), m.styles.muted.Render(folder)}
	if m.st.Search != "" {
		parts = append(parts, m.styles.muted.Render(fmt.Sprintf("search: %q", m.st.Search)))
	}
	if m.st.SelectMode {
		parts = append(parts, m.styles.status.Render(fmt.Sprintf("%d selected", len(m.st.Selected))))
	}
	line := strings.Join(parts, "  ")
	return line + "\n" + m.styles.muted.Render(strings.Repeat("─", max(m.width, 1)))
}

func (m Model) sidebarView() string {
	counts := map[string]int{}
	for _, n := range m.st.Library.Notes {
		counts[n.FolderID]++
	}

	lines := make([]string, 0, len(m.st.Library.Folders)+1)
	for _, id := range m.folderRows() {
		var label string
		if id == notes.AllFolders {
			label = fmt.Sprintf("  All Notes (%d)", len(m.st.Library.Notes))
		} else {
			f, _ := m.st.Library.Folder(id)
			dot := lipgloss.NewStyle().Foreground(folderColor(f.Color)).Render("●")
			label = fmt.Sprintf("%s %s (%d)", dot, f.Name, counts[id])
		}
		label = truncate.StringWithTail(label, uint(sidebarWidth-1), "…")
		if id == m.st.ActiveFolderID {
			lines = append(lines, m.styles.folderOn.Render(label))
		} else {
			lines = append(lines, m.styles.folder.Render(label))
		}
	}
	return m.styles.sidebar.Height(m.gridHeight()).Render(strings.Join(lines, "\n"))
}

func (m Model) gridView() string {
	vis := m.st.Visible()
	if len(vis) == 0 {
		if m.st.Search != "" {
			return m.styles.muted.Render("No notes match your search.")
		}
		return m.styles.muted.Render("No notes here. Press n to create one.")
	}

	end := min(m.offset+max(m.rows(), 1), len(vis))
	cards := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		cards = append(cards, m.cardView(vis[i], i))
	}
	return strings.Join(cards, "\n")
}

func (m Model) cardView(n notes.Note, idx int) string {
	w := m.mainWidth() - 2
	inner := max(w-1, 1)

	style := m.styles.card
	switch {
	case m.st.Dragged == idx:
		style = m.styles.cardPicked
	case m.st.IsSelected(n.ID):
		style = m.styles.cardPicked
	case idx == m.cursor:
		style = m.styles.cardCursor
	}

	title := displayTitle(n)
	if m.st.SelectMode {
		box := "[ ] "
		if m.st.IsSelected(n.ID) {
			box = "[x] "
		}
		title = box + title
	}
	f, ok := m.st.Library.Folder(n.FolderID)
	meta := n.Time().Format("1/2/2006")
	if ok {
		meta = lipgloss.NewStyle().Foreground(folderColor(f.Color)).Render("●") + " " + meta
	}
	room := max(inner-lipgloss.Width(meta)-1, 1)
	title = truncate.StringWithTail(title, uint(room), "…")
	gap := max(inner-lipgloss.Width(title)-lipgloss.Width(meta), 1)
	top := m.styles.cardTitle.Render(title) + strings.Repeat(" ", gap) + meta

	preview := truncate.StringWithTail(markup.OneLine(markup.Preview(n.Content)), uint(inner), "…")
	return style.Width(w).Render(top + "\n" + m.styles.muted.Render(preview))
}

func (m Model) editorView() string {
	n, ok := m.st.ActiveNote()
	if !ok {
		return m.styles.muted.Render("Note not found.")
	}
	folder := m.styles.muted.Render("Folder: " + m.st.Library.FolderName(n.FolderID))
	return lipgloss.JoinVertical(lipgloss.Left, m.titleInput.View(), folder, m.body.View())
}

func (m Model) overlayView() string {
	var title, content string
	switch m.overlay {
	case overlaySearch:
		title, content = "Search", m.searchInput.View()
	case overlayFolder:
		title, content = "New Folder", m.folderInput.View()
	case overlayImport:
		title, content = "Import JSON backup", m.importInput.View()
	case overlayConfirm:
		title, content = "Confirm", m.confirmMsg
	case overlayMove:
		title, content = "Move to", m.menuView()
	case overlayShare:
		title, content = fmt.Sprintf("Share %d notes", len(m.st.Selected)), m.menuView()
	case overlaySettings:
		title, content = "Workspace Settings", m.menuView()
	}
	box := m.styles.overlay.Render(m.styles.title.Render(title) + "\n\n" + content)
	return lipgloss.Place(m.mainWidth(), m.gridHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) menuView() string {
	items := m.menuItems()
	lines := make([]string, len(items))
	for i, it := range items {
		if i == m.menuCursor {
			lines[i] = m.styles.menuOn.Render("> " + it)
		} else {
			lines[i] = m.styles.menuItem.Render("  " + it)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) chatPanelView() string {
	head := m.styles.title.Render("AI Assistant")
	return m.styles.chatPanel.Height(m.gridHeight()).Render(
		lipgloss.JoinVertical(lipgloss.Left, head, m.chatView.View(), m.chatInput.View()),
	)
}

func (m Model) footerView() string {
	status := ""
	if m.st.Status != "" {
		status = m.styles.status.Render(m.st.Status)
	}
	return m.styles.muted.Render(strings.Repeat("─", max(m.width, 1))) + "\n" +
		status + "\n" + m.styles.help.Render(m.helpText())
}

func (m Model) helpText() string {
	switch {
	case m.overlay == overlayConfirm:
		return "y confirm • n cancel"
	case m.overlay == overlaySearch, m.overlay == overlayFolder, m.overlay == overlayImport:
		return "enter accept • esc cancel"
	case m.overlay != overlayNone:
		return "↑/↓ choose • enter select • esc close"
	case m.chatOpen && m.chatFocused:
		return "enter send • pgup/pgdown scroll • tab/esc leave chat • ctrl+t close"
	case m.st.Mode == workspace.ModeEditor:
		return "esc back • tab title/body • ctrl+e $EDITOR • ctrl+d delete • ctrl+t AI"
	case m.st.SelectMode:
		return "space toggle • a all • m move • s share • d delete • esc done"
	}
	return "n new • enter open • / search • v select • J/K reorder • [ ] folder • f new folder • , settings • c AI • q quit"
}
