package entities

import (
	"database/sql"
	"time"
)

type User struct {
	ID           uint64
	NationalID   string
	FirstName    string
	LastName     string
	Email        string
	Phone        sql.NullString
	PasswordHash string
	RoleID       uint64
	RoleName     sql.NullString
	Active       bool
	CreatedAt    time.Time
	LastAccessAt sql.NullTime
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
