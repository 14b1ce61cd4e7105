package models

const TAG_DEFAULT_COLOR = "#2c3cba"

type Tag struct {
	ID    int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name  string `gorm:"not null" json:"name" form:"name"`
	Color string `gorm:"not null;size:7" json:"color" form:"color"`
	Slug  string `gorm:"not null;unique_index" json:"slug" form:"slug"`
}
