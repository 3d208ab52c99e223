package guard

import "github.com/mmeshcher/astrostore/internal/session"

// Access описывает требования представления к сессии.
type Access int

const (
	// Public — представление доступно без входа.
	Public Access = iota
	// Authenticated — требуется вход.
	Authenticated
	// Admin — требуется вход под администратором.
	Admin
)

// Route описывает представление витрины.
type Route struct {
	Name   string
	Path   string
	Access Access
}

// Routes — таблица представлений витрины.
var Routes = []Route{
	{Name: "home", Path: "/", Access: Public},
	{Name: "services", Path: "/services", Access: Public},
	{Name: "register", Path: "/register", Access: Public},
	{Name: "login", Path: "/login", Access: Public},
	{Name: "dashboard", Path: "/dashboard", Access: Authenticated},
	{Name: "cart", Path: "/cart", Access: Authenticated},
	{Name: "checkout", Path: "/checkout", Access: Authenticated},
	{Name: "orders", Path: "/orders", Access: Authenticated},
	{Name: "admin-services", Path: "/admin/services", Access: Admin},
}

// Lookup ищет представление по имени.
func Lookup(name string) (Route, bool) {
	for _, r := range Routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Check применяет Decide к представлению. Публичные представления доступны всегда.
func Check(r Route, s session.Session, n Notifier) Decision {
	if r.Access == Public {
		return Decision{Outcome: Allow}
	}
	return Decide(s, r.Access == Admin, n)
}
