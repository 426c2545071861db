package entity

type User struct {
	Base
	Name           string `gorm:"unique"`
	Role           string `gorm:"default:USER"`
	ProfilePicture string
}

const (
	SuperAdminRole = "SUPER_ADMIN"
	AdminRole      = "ADMIN"
	UserRole       = "USER"
)
