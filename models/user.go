package models

import (
	"strings"

	"PlantKeeper/utils"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `json:"username" gorm:"unique"`
	Password string `json:"password"`
	Email    string `json:"email" gorm:"unique"`
}

// BeforeSave hashes the password unless it is already a bcrypt hash, so
// re-saving a loaded user does not double-hash.
func (user *User) BeforeSave(tx *gorm.DB) (err error) {
	if user.Password != "" && !strings.HasPrefix(user.Password, "$2") {
		hashedPassword, err := utils.HashPassword(user.Password)
		if err != nil {
			return err
		}
		user.Password = hashedPassword
	}
	return nil
}
