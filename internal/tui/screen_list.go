package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/passman/models"
)

// showList заполняет список записями и переключает экран.
func (m *model) showList(creds []models.Credential) (tea.Model, tea.Cmd) {
	m.busy = false
	items := make([]list.Item, len(creds))
	for i, cred := range creds {
		items[i] = credentialItem{cred: cred}
	}
	m.credentialList.ResetFilter()
	cmd := m.credentialList.SetItems(items)
	m.state = listScreen
	return m, tea.Batch(cmd, tea.ClearScreen)
}

// updateListScreen обрабатывает навигацию по списку.
func (m *model) updateListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Пока вводится фильтр, все клавиши принадлежат списку
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.credentialList.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case keyEsc, keyBack:
			if m.credentialList.FilterState() == list.FilterApplied {
				m.credentialList.ResetFilter()
				return m, nil
			}
			m.state = menuScreen
			return m, tea.ClearScreen
		case keyEnter:
			if item, ok := m.credentialList.SelectedItem().(credentialItem); ok {
				m.foundCredential = item.cred
				m.state = resultScreen
				return m, tea.ClearScreen
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.credentialList, cmd = m.credentialList.Update(msg)
	return m, cmd
}
