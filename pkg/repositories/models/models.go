package models

import "github.com/cbodonnell/rocketjam/pkg/game/types"

// User is a row of the users table. HashedPassword is a bcrypt hash, empty
// for users that only ever log in with an ID token.
type User struct {
	ID             types.UserID `json:"id"`
	Username       string       `json:"username"`
	HashedPassword string       `json:"-"`
}
