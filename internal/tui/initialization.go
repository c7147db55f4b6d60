package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// Константы, используемые при инициализации.
const (
	initPasswordCharLimit = 156
	initPasswordWidth     = 30
	initUserCharLimit     = 128
	initUserWidth         = 30
	initPlatformCharLimit = 256
	initPlatformWidth     = 40
)

// initTextInput создает обычное поле ввода.
func initTextInput(placeholder string, charLimit, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.Width = width
	return ti
}

// initMaskedInput создает поле ввода, отображающее '*' вместо символов.
func initMaskedInput(placeholder string) textinput.Model {
	ti := initTextInput(placeholder, initPasswordCharLimit, initPasswordWidth)
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '*'
	return ti
}

// initCredentialList инициализирует список записей.
func initCredentialList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("212")).
		BorderLeftForeground(lipgloss.Color("212"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("240")).
		BorderLeftForeground(lipgloss.Color("212"))

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Записи"
	l.SetShowHelp(false) // Справку рисуем сами
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings() // q и esc обрабатываются моделью
	l.Styles.Title = list.DefaultStyles().Title.Bold(true)
	return l
}

// initHelpTextMap возвращает строки справки для каждого экрана.
func initHelpTextMap() map[screenState]string {
	return map[screenState]string{
		welcomeScreen:  "(l) вход, (r) регистрация, (q) выход",
		loginScreen:    "(Tab) следующее поле, (Enter) войти, (Esc) назад",
		registerScreen: "(Tab) следующее поле, (Enter) зарегистрироваться, (Esc) назад",
		messageScreen:  "",
		menuScreen:     "(a) добавить, (g) найти, (l) список, (o) выйти из учетной записи, (q) выход",
		addScreen:      "(Tab) следующее поле, (Enter) сохранить, (Esc) назад",
		getScreen:      "(Enter) найти, (Esc) назад",
		resultScreen:   "(Esc/Enter/b) назад",
		listScreen:     "(/) фильтр, (Esc/b) назад",
	}
}

// initModel создает начальную модель.
func initModel(ctx context.Context, session SessionManager, debugMode bool) model {
	return model{
		ctx:     ctx,
		session: session,
		state:   welcomeScreen,

		loginUsernameInput:    initTextInput("Имя пользователя", initUserCharLimit, initUserWidth),
		loginPasswordInput:    initMaskedInput("Мастер-пароль"),
		registerUsernameInput: initTextInput("Имя пользователя", initUserCharLimit, initUserWidth),
		registerPasswordInput: initMaskedInput("Мастер-пароль"),
		addPlatformInput:      initTextInput("Платформа", initPlatformCharLimit, initPlatformWidth),
		addPasswordInput:      initMaskedInput("Пароль"),
		getPlatformInput:      initTextInput("Платформа", initPlatformCharLimit, initPlatformWidth),
		credentialList:        initCredentialList(),

		pauseDuration: messagePause,
		debugMode:     debugMode,
		docStyle:      lipgloss.NewStyle().Margin(docStyleMarginVertical, docStyleMarginHorizontal),
		helpTextMap:   initHelpTextMap(),
	}
}
