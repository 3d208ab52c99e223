package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/astrostore/internal/session"
)

type countingNotifier struct {
	messages []string
}

func (c *countingNotifier) Notify(message string) {
	c.messages = append(c.messages, message)
}

func authenticated(admin bool) session.Session {
	return session.Session{
		IsAuthenticated: true,
		Token:           "tok",
		User:            &session.User{ID: 1, IsAdmin: admin},
	}
}

func TestDecide_Unauthenticated(t *testing.T) {
	for _, adminRequired := range []bool{false, true} {
		n := &countingNotifier{}

		d := Decide(session.Session{}, adminRequired, n)

		assert.Equal(t, Decision{Outcome: Redirect, Target: LoginPath}, d)
		assert.Empty(t, n.messages)
	}
}

func TestDecide_NonAdminOnAdminView(t *testing.T) {
	n := &countingNotifier{}

	for i := 1; i <= 3; i++ {
		d := Decide(authenticated(false), true, n)

		assert.Equal(t, Decision{Outcome: Redirect, Target: HomePath}, d)
		require.Len(t, n.messages, i)
		assert.Equal(t, NotAuthorizedNotice, n.messages[i-1])
	}
}

func TestDecide_Allows(t *testing.T) {
	tests := []struct {
		name          string
		session       session.Session
		adminRequired bool
	}{
		{name: "user on gated view", session: authenticated(false), adminRequired: false},
		{name: "admin on gated view", session: authenticated(true), adminRequired: false},
		{name: "admin on admin view", session: authenticated(true), adminRequired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &countingNotifier{}
			d := Decide(tt.session, tt.adminRequired, n)

			assert.True(t, d.Allowed())
			assert.Empty(t, n.messages)
		})
	}
}

func TestDecide_NilNotifier(t *testing.T) {
	d := Decide(authenticated(false), true, nil)
	assert.Equal(t, HomePath, d.Target)
}

func TestCheck_RouteTable(t *testing.T) {
	var notices int
	n := NotifierFunc(func(string) { notices++ })

	home, ok := Lookup("home")
	require.True(t, ok)
	assert.True(t, Check(home, session.Session{}, n).Allowed())

	checkout, ok := Lookup("checkout")
	require.True(t, ok)
	assert.Equal(t, LoginPath, Check(checkout, session.Session{}, n).Target)
	assert.True(t, Check(checkout, authenticated(false), n).Allowed())

	admin, ok := Lookup("admin-services")
	require.True(t, ok)
	assert.Equal(t, HomePath, Check(admin, authenticated(false), n).Target)
	assert.True(t, Check(admin, authenticated(true), n).Allowed())

	assert.Equal(t, 1, notices)

	_, ok = Lookup("missing")
	assert.False(t, ok)
}
