package domain

import "time"

type UserId = int64

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	Id              UserId
	Name            string
	Email           string
	PasswordHash    string
	Role            Role
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ResolveRoleOnVerify decides the role a user ends up with when their email
// gets verified. The bootstrap admin email and pending invitations are the
// only paths that escalate without an explicit admin action.
func ResolveRoleOnVerify(email string, invited bool, bootstrapEmail string) Role {
	if bootstrapEmail != "" && email == bootstrapEmail {
		return RoleAdmin
	}
	if invited {
		return RoleAdmin
	}
	return RoleUser
}
