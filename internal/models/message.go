package models

import "time"

// Message is a short text post on the board. AuthorID references a User;
// Author stays nil when the reference no longer resolves.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	AuthorID    *uint     `gorm:"index" json:"author_id,omitempty"`
	Author      *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	DateCreated time.Time `gorm:"not null;index" json:"date_created"`
}

// MessageView is the projection of a Message handed to a viewer. Author,
// DateCreated and Elapsed are left empty for viewers who are not members.
type MessageView struct {
	ID          uint       `json:"id"`
	Text        string     `json:"text"`
	Author      *User      `json:"author,omitempty"`
	DateCreated *time.Time `json:"date_created,omitempty"`
	Elapsed     string     `json:"elapsed,omitempty"`
}
