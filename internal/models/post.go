package models

import "time"

// PostDateLayout is the display format for a post's publication date,
// e.g. "June 03, 2025". The date is stamped once at creation and never
// recalculated, so it is stored as the formatted string itself.
const PostDateLayout = "January 02, 2006"

// BlogPost is a published article. Titles are globally unique. Edits
// overwrite the mutable fields and rebind the author to the editor, but
// never touch Date.
type BlogPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"uniqueIndex;size:250;not null" json:"title"`
	Subtitle  string    `gorm:"size:250;not null" json:"subtitle"`
	Date      string    `gorm:"size:250;not null" json:"date"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	ImageURL  string    `gorm:"size:250;not null" json:"img_url"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the original blog_posts table name.
func (BlogPost) TableName() string {
	return "blog_posts"
}
