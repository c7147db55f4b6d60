package services

// State - состояние сессии. Возможны ровно три варианта:
// Fresh, Registered и Authenticated.
type State interface {
	isState()
	String() string
}

// Fresh - начальное состояние, пользователь не выбран.
type Fresh struct{}

// Registered - пользователь только что зарегистрирован, но еще не вошел.
type Registered struct {
	User string
}

// Authenticated - пользователь вошел, хранилище привязано к его файлу.
type Authenticated struct {
	User string
}

func (Fresh) isState()         {}
func (Registered) isState()    {}
func (Authenticated) isState() {}

func (Fresh) String() string           { return "fresh" }
func (s Registered) String() string    { return "registered(" + s.User + ")" }
func (s Authenticated) String() string { return "authenticated(" + s.User + ")" }
