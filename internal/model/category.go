package model

// Category holds the aggregate member counts of a category.
type Category struct {
	ID      int64  `gorm:"column:cat_id;primaryKey;autoIncrement"`
	Title   string `gorm:"column:cat_title;size:255;not null;uniqueIndex"`
	Pages   int64  `gorm:"column:cat_pages;not null;default:0"`
	Subcats int64  `gorm:"column:cat_subcats;not null;default:0"`
	Files   int64  `gorm:"column:cat_files;not null;default:0"`
}

func (Category) TableName() string {
	return "category"
}
