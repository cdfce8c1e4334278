package model

// Profile 代表一个注册档案
type Profile struct {
	ID           int64
	Email        string
	PasswordHash string
	DisplayName  string
	Roles        []Role
}

// Role 代表一个角色，通过 profile_roles 关联到档案，关联保持顺序
type Role struct {
	ID   int64
	Name string
}
