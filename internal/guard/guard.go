// Package guard решает, можно ли показать запрошенное представление при текущей сессии.
package guard

import "github.com/mmeshcher/astrostore/internal/session"

const (
	// LoginPath — представление, на которое перенаправляется неаутентифицированный пользователь.
	LoginPath = "/login"
	// HomePath — представление, на которое перенаправляется пользователь без прав администратора.
	HomePath = "/"
	// NotAuthorizedNotice — сообщение, показываемое при отказе в доступе к административному разделу.
	NotAuthorizedNotice = "You are not authorized to view this page"
)

// Outcome описывает результат проверки доступа.
type Outcome int

const (
	// Allow разрешает показ представления.
	Allow Outcome = iota
	// Redirect требует перехода на Decision.Target.
	Redirect
)

// Decision — результат проверки доступа.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Allowed сообщает, что представление можно показать.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Notifier показывает пользователю одноразовое уведомление.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc позволяет использовать функцию как Notifier.
type NotifierFunc func(message string)

// Notify вызывает f(message).
func (f NotifierFunc) Notify(message string) {
	f(message)
}

// Decide проверяет доступ к представлению.
// Единственный побочный эффект — одно уведомление при отказе в административном доступе.
func Decide(s session.Session, adminRequired bool, n Notifier) Decision {
	if !s.IsAuthenticated || s.User == nil {
		return Decision{Outcome: Redirect, Target: LoginPath}
	}

	if adminRequired && !s.User.IsAdmin {
		if n != nil {
			n.Notify(NotAuthorizedNotice)
		}
		return Decision{Outcome: Redirect, Target: HomePath}
	}

	return Decision{Outcome: Allow}
}
