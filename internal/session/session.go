// Package session holds the context of the logged-in user, shared by every
// screen of the application.
package session

import (
	"errors"
	"strings"

	"places/internal/store"
)

var ErrNoNickname = errors.New("session: nickname is required")

// Session identifies the user to the backend and owns their place list.
// It is created at login and passed by reference to its consumers.
type Session struct {
	Nickname string
	Places   *store.PlaceStore
}

// New starts a session for nickname with an empty place list.
func New(nickname string) (*Session, error) {
	if strings.TrimSpace(nickname) == "" {
		return nil, ErrNoNickname
	}
	return &Session{Nickname: nickname, Places: store.New()}, nil
}
