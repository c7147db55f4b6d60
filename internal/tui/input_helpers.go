package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// Количество полей, обрабатываемых handleTwoFieldInput.
	numTwoFields = 2
)

// focusField переводит фокус на поле idx (0 или 1).
func focusField(idx int, input1, input2 *textinput.Model) {
	if idx == 0 {
		input2.Blur()
		input1.Focus()
	} else {
		input1.Blur()
		input2.Focus()
	}
}

// handleTwoFieldKeys обрабатывает нажатия Tab, Shift+Tab и Enter в паре полей.
// Возвращает модель, команду и флаг, указывающий, была ли клавиша обработана.
func (m *model) handleTwoFieldKeys(
	keyMsg tea.KeyMsg,
	input1 *textinput.Model,
	input2 *textinput.Model,
	focusedFieldIdx *int,
	onSubmit func() (tea.Model, tea.Cmd),
) (tea.Model, tea.Cmd, bool) {
	switch keyMsg.String() {
	case keyTab:
		*focusedFieldIdx = (*focusedFieldIdx + 1) % numTwoFields
		focusField(*focusedFieldIdx, input1, input2)
		return m, textinput.Blink, true
	case keyShiftTab:
		*focusedFieldIdx = (*focusedFieldIdx + numTwoFields - 1) % numTwoFields
		focusField(*focusedFieldIdx, input1, input2)
		return m, textinput.Blink, true
	case keyEnter:
		if *focusedFieldIdx == 0 {
			// Enter в первом поле завершает его ввод и переводит ко второму
			*focusedFieldIdx = 1
			focusField(1, input1, input2)
			return m, textinput.Blink, true
		}
		model, cmd := onSubmit()
		return model, cmd, true
	default:
		return m, nil, false
	}
}

// handleTwoFieldInput обрабатывает ввод в двух полях (например, имя и пароль),
// переключение фокуса между ними и действия по Enter/Esc.
func (m *model) handleTwoFieldInput(
	msg tea.Msg,
	input1 *textinput.Model,
	input2 *textinput.Model,
	focusedFieldIdx *int,
	onSubmit func() (tea.Model, tea.Cmd),
	previousState screenState,
) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == keyEsc {
			m.state = previousState
			input1.Blur()
			input2.Blur()
			return m, tea.ClearScreen
		}

		newModel, keyCmd, handled := m.handleTwoFieldKeys(keyMsg, input1, input2, focusedFieldIdx, onSubmit)
		if handled {
			return newModel, keyCmd
		}
	}

	// Остальное (символы, Backspace) уходит в активное поле
	activeInput := input1
	if *focusedFieldIdx == 1 {
		activeInput = input2
	}
	var cmd tea.Cmd
	*activeInput, cmd = activeInput.Update(msg)
	return m, cmd
}

// resetInputs очищает поля и ставит фокус на первое.
func resetInputs(focusedFieldIdx *int, inputs ...*textinput.Model) {
	for _, in := range inputs {
		in.Reset()
		in.Blur()
	}
	if focusedFieldIdx != nil {
		*focusedFieldIdx = 0
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
}
