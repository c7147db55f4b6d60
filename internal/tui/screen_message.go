package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// showError показывает ошибку и через паузу возвращает к повтору ввода.
func (m *model) showError(title string, err error, retry screenState) (tea.Model, tea.Cmd) {
	m.busy = false
	m.message = message{
		title:   title,
		text:    err.Error(),
		isError: true,
		next:    retry,
	}
	m.state = messageScreen
	return m, tea.Batch(tea.ClearScreen, resumeCmd(m.pauseDuration, retry))
}

// updateMessageScreen игнорирует ввод до окончания паузы.
func (m *model) updateMessageScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if resume, ok := msg.(resumeMsg); ok {
		return m, m.enterScreen(resume.next)
	}
	return m, nil
}

// viewMessageScreen отображает сообщение в рамке.
func (m *model) viewMessageScreen() string {
	text := m.message.text
	if m.message.isError {
		text = errorStyle.Render(text)
	}
	return renderParagraph(m.message.title, text)
}
