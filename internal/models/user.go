// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a registered account. Password holds the bcrypt hash only.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Username         string    `gorm:"uniqueIndex;not null" json:"username"`
	Password         string    `gorm:"not null" json:"-"`
	MembershipStatus bool      `gorm:"not null;default:false" json:"membership_status"`
	Admin            bool      `gorm:"not null;default:false" json:"admin"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// CanSeeAuthors reports whether u may view message authorship: members and admins.
// A nil user is anonymous.
func (u *User) CanSeeAuthors() bool {
	return u != nil && (u.MembershipStatus || u.Admin)
}

// IsAdmin is nil-safe.
func (u *User) IsAdmin() bool {
	return u != nil && u.Admin
}
