package model

import "time"

const (
	ColorPeach  = "peach"
	ColorYellow = "yellow"
	ColorMint   = "mint"
)

// CategoryColors lists the accepted category colors.
var CategoryColors = []string{ColorPeach, ColorYellow, ColorMint}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_category_name_user" json:"name"`
	Color     string    `gorm:"size:20;not null;default:peach" json:"color"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_category_name_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidColor(color string) bool {
	for _, c := range CategoryColors {
		if c == color {
			return true
		}
	}
	return false
}
