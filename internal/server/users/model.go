package users

import "time"

// User is an account of the development backend. GoogleID is set for
// accounts created or linked through Google sign-in.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         string
	Avatar       string
	GoogleID     string
	Salt         []byte
	PasswordHash []byte
	CreatedAt    time.Time
}

// Profile is the public view of a user returned to clients.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Profile strips credentials from u.
func (u *User) Profile() *Profile {
	return &Profile{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role, Avatar: u.Avatar}
}
