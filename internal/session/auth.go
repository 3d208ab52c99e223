package session

import (
	"context"
	"errors"
)

// ErrAuth возвращается при неудачном входе.
var ErrAuth = errors.New("authentication failed")

// User описывает пользователя текущей сессии.
type User struct {
	ID      int64  `json:"id"`
	Login   string `json:"login"`
	IsAdmin bool   `json:"isAdmin"`
}

// Session описывает состояние аутентификации клиента.
type Session struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Token           string `json:"token,omitempty"`
	User            *User  `json:"user,omitempty"`
}

// IsAdmin сообщает, что сессия аутентифицирована и принадлежит администратору.
func (s Session) IsAdmin() bool {
	return s.IsAuthenticated && s.User != nil && s.User.IsAdmin
}

// Valid проверяет, что у аутентифицированной сессии есть пользователь и токен.
func (s Session) Valid() bool {
	if !s.IsAuthenticated {
		return s.User == nil && s.Token == ""
	}
	return s.User != nil && s.Token != ""
}

// Credentials содержит данные для входа.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Authenticator проверяет учётные данные во внешней системе и выдаёт токен сессии.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (string, User, error)
}

// AuthenticatorFunc позволяет использовать функцию как Authenticator.
type AuthenticatorFunc func(ctx context.Context, creds Credentials) (string, User, error)

// Login вызывает f.
func (f AuthenticatorFunc) Login(ctx context.Context, creds Credentials) (string, User, error) {
	return f(ctx, creds)
}

// Auth хранит текущую сессию клиента.
type Auth struct {
	session Session
}

// Session возвращает копию текущей сессии.
func (a *Auth) Session() Session {
	s := a.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (a *Auth) set(token string, user User) {
	a.session = Session{
		IsAuthenticated: true,
		Token:           token,
		User:            &user,
	}
}

func (a *Auth) reset() {
	a.session = Session{}
}
