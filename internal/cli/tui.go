package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/facture/pkg/addressbook"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ClientListModel - Interactive client selection
// =============================================================================

// clientRow is one selectable address-book entry.
type clientRow struct {
	Key   string
	Name  string
	City  string
	Items int
}

// ClientListModel is the bubbletea model for picking the client to bill.
type ClientListModel struct {
	Clients  []clientRow
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewClientListModel lists the names of book that have both a client and an
// item set.
func NewClientListModel(book *addressbook.Book) ClientListModel {
	names := book.Names()
	rows := make([]clientRow, 0, len(names))
	for _, name := range names {
		c := book.Clients[name]
		rows = append(rows, clientRow{
			Key:   name,
			Name:  string(c.Name),
			City:  string(c.City),
			Items: len(book.Items[name].Items),
		})
	}
	return ClientListModel{Clients: rows, Height: 15}
}

func (m ClientListModel) Init() tea.Cmd {
	return nil
}

func (m ClientListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Clients)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Clients) == 0 {
				return m, nil
			}
			m.Selected = m.Clients[m.Cursor].Key
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ClientListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Client"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Clients) {
		end = len(m.Clients)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Clients[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		city := c.City
		if city == "" {
			city = "—"
		}
		rows = append(rows, []string{cursor, c.Key, c.Name, city, fmt.Sprintf("%d", c.Items)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Key", "Client", "City", "Items").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 || col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Clients))))

	return b.String()
}

// pickClient runs the picker and returns the selected key.
func pickClient(ctx context.Context, book *addressbook.Book) (string, error) {
	m := NewClientListModel(book)
	if len(m.Clients) == 0 {
		return "", errNoClients()
	}
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	if sel := final.(ClientListModel).Selected; sel != "" {
		return sel, nil
	}
	return "", context.Canceled
}
