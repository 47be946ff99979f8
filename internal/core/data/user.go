package data

import (
	"errors"

	"gorm.io/gorm"
)

// User contains the score bookkeeping for each known identity.
type User struct {
	ID       uint64 `gorm:"primaryKey"`
	Username string `gorm:"unique; not null"`
	// Denormalized running total of every round score the user has earned.
	TotalScore int `gorm:"default:0"`
}

// FindUserByUsername searches for a user with the specified username, returning the
// *User instance if found or nil if there is no match.
func FindUserByUsername(db *gorm.DB, username string) (*User, error) {
	var user User
	err := db.Where("username = ?", username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// CreateUser persists the User record to the database.
func CreateUser(db *gorm.DB, user *User) error {
	return db.Create(user).Error
}

// incrementUserScore adds delta to the user's running total, creating the
// user row if this is the first round recorded for the name.
func incrementUserScore(db *gorm.DB, username string, delta int) error {
	result := db.Model(&User{}).
		Where("username = ?", username).
		Update("total_score", gorm.Expr("total_score + ?", delta))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return db.Create(&User{Username: username, TotalScore: delta}).Error
	}
	return nil
}
