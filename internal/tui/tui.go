// Package tui реализует терминальный интерфейс менеджера паролей на bubbletea.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofrs/flock"
)

// Options - параметры запуска интерфейса.
type Options struct {
	LockPath  string // Файл блокировки директории данных; пусто - без блокировки
	DebugMode bool
}

// Init - команда, выполняемая при запуске приложения.
func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

// setStatusMessage устанавливает статусное сообщение и запускает таймер для его очистки.
func (m *model) setStatusMessage(status string) (tea.Model, tea.Cmd) {
	m.statusMessage = status
	m.statusMessageError = false
	return m, clearStatusCmd(statusMessageTimeout)
}

// setStatusError устанавливает статусное сообщение об ошибке.
func (m *model) setStatusError(status string) (tea.Model, tea.Cmd) {
	m.statusMessage = status
	m.statusMessageError = true
	return m, clearStatusCmd(statusMessageTimeout)
}

// getMainContentView возвращает основное содержимое для текущего состояния.
func (m *model) getMainContentView() string {
	switch m.state {
	case welcomeScreen:
		return m.viewWelcomeScreen()
	case loginScreen:
		return m.viewLoginScreen()
	case registerScreen:
		return m.viewRegisterScreen()
	case messageScreen:
		return m.viewMessageScreen()
	case menuScreen:
		return m.viewMenuScreen()
	case addScreen:
		return m.viewAddScreen()
	case getScreen:
		return m.viewGetScreen()
	case resultScreen:
		return m.viewResultScreen()
	case listScreen:
		return m.credentialList.View()
	default:
		return "Неизвестное состояние!"
	}
}

// getDebugInfoString формирует отладочную информацию.
func (m *model) getDebugInfoString() string {
	var debugInfo strings.Builder
	debugInfo.WriteString(fmt.Sprintf(" [State: %s]\n", m.state.String()))
	debugInfo.WriteString(fmt.Sprintf(" [User: %s]\n", m.currentUser))
	debugInfo.WriteString(fmt.Sprintf(" [Busy: %t]\n", m.busy))
	debugInfo.WriteString(fmt.Sprintf(" [Lock Acquired: %t]\n", m.lockAcquired))
	return debugInfo.String()
}

// View отрисовывает пользовательский интерфейс.
func (m *model) View() string {
	mainContent := m.getMainContentView()
	help := m.helpTextMap[m.state]

	var footer strings.Builder
	if m.statusMessage != "" || m.readOnlyMode {
		footer.WriteString("\n")
		if m.statusMessageError {
			footer.WriteString(errorStyle.Render(m.statusMessage))
		} else {
			footer.WriteString(m.statusMessage)
		}
		if m.readOnlyMode {
			footer.WriteString(" [Read-Only]")
		}
	}

	if m.debugMode {
		footer.WriteString("\n\n---\nОтладка:\n")
		footer.WriteString(m.getDebugInfoString())
	}

	return fmt.Sprintf("%s\n%s%s", m.docStyle.Render(mainContent), subtleStyle.Render(help), footer.String())
}

// Start запускает интерфейс и блокируется до выхода пользователя.
// Терминал возвращается в исходное состояние на любом пути выхода.
func Start(ctx context.Context, session SessionManager, opts Options) error {
	m := initModel(ctx, session, opts.DebugMode)

	if opts.LockPath != "" {
		m.fileLock = flock.New(opts.LockPath)
		acquired, err := m.fileLock.TryLock()
		if err != nil {
			slog.Error("Ошибка при попытке блокировки", "lockPath", opts.LockPath, "error", err)
			return fmt.Errorf("ошибка блокировки '%s': %w", opts.LockPath, err)
		}
		m.lockAcquired = acquired

		if acquired {
			slog.Info("Блокировка директории данных получена", "lockPath", opts.LockPath)
			defer func() {
				if errUnlock := m.fileLock.Unlock(); errUnlock != nil {
					slog.Error("Ошибка при снятии блокировки", "lockPath", opts.LockPath, "error", errUnlock)
				} else {
					slog.Info("Блокировка снята", "lockPath", opts.LockPath)
				}
			}()
		} else {
			m.readOnlyMode = true
			slog.Warn("Блокировка не получена (директория используется?). Read-Only.", "lockPath", opts.LockPath)
		}
	}

	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		slog.Error("Ошибка при работе TUI", "error", err)
		return fmt.Errorf("ошибка интерфейса: %w", err)
	}
	slog.Info("Интерфейс завершен")
	return nil
}
