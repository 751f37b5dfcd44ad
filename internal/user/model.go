package user

import "time"

type Role string

const (
	RoleBuyer      Role = "buyer"
	RoleSeller     Role = "seller"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"

	// RoleNone is the unauthenticated state.
	RoleNone Role = ""
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	Blocked   bool      `json:"blocked"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) EntityID() string { return u.ID }

func (u User) EntityVersion() int64 { return u.UpdatedAt.UnixMilli() }
