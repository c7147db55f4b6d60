package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/gofrs/flock"

	"github.com/maynagashev/passman/models"
)

// Состояния (экраны) приложения.
type screenState int

const (
	welcomeScreen  screenState = iota // Стартовый экран: вход, регистрация, выход
	loginScreen                       // Ввод имени и мастер-пароля для входа
	registerScreen                    // Ввод имени и мастер-пароля для регистрации
	messageScreen                     // Сообщение с паузой перед повтором
	menuScreen                        // Меню вошедшего пользователя
	addScreen                         // Добавление записи
	getScreen                         // Ввод платформы для поиска
	resultScreen                      // Найденная запись
	listScreen                        // Список всех записей
)

func (s screenState) String() string {
	switch s {
	case welcomeScreen:
		return "welcome"
	case loginScreen:
		return "login"
	case registerScreen:
		return "register"
	case messageScreen:
		return "message"
	case menuScreen:
		return "menu"
	case addScreen:
		return "add"
	case getScreen:
		return "get"
	case resultScreen:
		return "result"
	case listScreen:
		return "list"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Клавиши.
const (
	keyLogin    = "l"
	keyRegister = "r"
	keyQuit     = "q"
	keyAdd      = "a"
	keyGet      = "g"
	keyList     = "l"
	keyLogout   = "o"
	keyBack     = "b"
	keyEnter    = "enter"
	keyEsc      = "esc"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyCtrlC    = "ctrl+c"
)

const (
	appTitle = "Passman"

	helpStatusHeightOffset   = 2 // Высота строки помощи и статуса
	inputWidthOffset         = 4
	docStyleMarginVertical   = 1
	docStyleMarginHorizontal = 2
)

// SessionManager - операции сессии, которые вызывает интерфейс.
// Реализуется services.Session.
type SessionManager interface {
	Register(ctx context.Context, user, master string) error
	Login(ctx context.Context, user, master string) error
	Logout(ctx context.Context) error
	Add(ctx context.Context, cred models.Credential) error
	Get(ctx context.Context, platform string) (models.Credential, error)
	List(ctx context.Context) ([]models.Credential, error)
}

// credentialItem представляет элемент списка записей.
// Реализует интерфейс list.Item.
type credentialItem struct {
	cred models.Credential
}

func (i credentialItem) Title() string       { return i.cred.Platform }
func (i credentialItem) Description() string { return "Пользователь: " + i.cred.User }
func (i credentialItem) FilterValue() string { return i.cred.Platform }

// message - содержимое экрана сообщения.
type message struct {
	title   string
	text    string
	isError bool
	next    screenState // Куда вернуться после паузы
}

// model - модель bubbletea.
type model struct {
	ctx     context.Context
	session SessionManager
	state   screenState
	busy    bool // Команда сессии выполняется, ввод игнорируется

	// Имя вошедшего пользователя. Меняется только в Update по результатам команд,
	// View не обращается к сессии.
	currentUser string

	// Вход и регистрация
	loginUsernameInput        textinput.Model
	loginPasswordInput        textinput.Model
	registerUsernameInput     textinput.Model
	registerPasswordInput     textinput.Model
	loginRegisterFocusedField int

	// Добавление записи
	addPlatformInput   textinput.Model
	addPasswordInput   textinput.Model
	addFocusedField    int
	getPlatformInput   textinput.Model
	foundCredential    models.Credential
	credentialList     list.Model
	message            message
	pauseDuration      time.Duration
	statusMessage      string
	statusMessageError bool

	// Блокировка директории данных
	fileLock     *flock.Flock
	lockAcquired bool
	readOnlyMode bool

	debugMode   bool
	docStyle    lipgloss.Style
	helpTextMap map[screenState]string
}
