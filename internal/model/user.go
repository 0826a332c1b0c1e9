package model

const (
	RoleAdmin     = "admin"
	RoleHRManager = "hr_manager"
	RoleEmployee  = "employee"
)

type User struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	Role           string `json:"role"`
	Disabled       bool   `json:"disabled"`
}
