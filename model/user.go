package model

import "time"

// User is the persistence shape of a registered user. The bcrypt hash is
// excluded from JSON as a backstop, but responses should go through Public()
// so the secret field never even exists on the wire type.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicUser is the client-facing projection of a User.
type PublicUser struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// Public returns the response projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Email: u.Email,
	}
}
