package session

import "tenderportal/models"

// State - снимок состояния сессии, отдается наружу по значению
type State struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
	Err             string
}

// action - закрытое множество переходов состояния. Вместо строковых
// тегов оригинального диспетчера используется запечатанный интерфейс,
// перебор в reduce покрывает все варианты
type action interface {
	isAction()
}

type loginStart struct{}

type loginSuccess struct {
	user models.User
}

type loginFailure struct {
	reason string
}

type logout struct{}

type clearError struct{}

func (loginStart) isAction()   {}
func (loginSuccess) isAction() {}
func (loginFailure) isAction() {}
func (logout) isAction()       {}
func (clearError) isAction()   {}

// reduce применяет переход к состоянию, не мутируя аргумент
func reduce(s State, a action) State {
	switch a := a.(type) {
	case loginStart:
		s.IsLoading = true
		s.Err = ""
		return s
	case loginSuccess:
		u := a.user
		return State{User: &u, IsAuthenticated: true}
	case loginFailure:
		return State{Err: a.reason}
	case logout:
		return State{}
	case clearError:
		s.Err = ""
		return s
	}
	return s
}
