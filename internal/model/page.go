package model

// Page is the primary document row.
type Page struct {
	ID         int64  `gorm:"column:page_id;primaryKey;autoIncrement"`
	Namespace  int    `gorm:"column:page_namespace;not null;uniqueIndex:name_title"`
	Title      string `gorm:"column:page_title;size:255;not null;uniqueIndex:name_title"`
	IsRedirect bool   `gorm:"column:page_is_redirect;not null;default:false"`
	IsNew      bool   `gorm:"column:page_is_new;not null;default:false"`
	Touched    string `gorm:"column:page_touched;size:14"`
	Latest     int64  `gorm:"column:page_latest;not null;default:0"`
	Len        int    `gorm:"column:page_len;not null;default:0"`
}

func (Page) TableName() string {
	return "page"
}

// Ref returns the reference of the page.
func (p *Page) Ref() PageRef {
	return PageRef{ID: p.ID, Namespace: p.Namespace, Title: p.Title}
}

// PageRestriction is a protection entry of a page.
type PageRestriction struct {
	ID      int64  `gorm:"column:pr_id;primaryKey;autoIncrement"`
	Page    int64  `gorm:"column:pr_page;not null;index"`
	Type    string `gorm:"column:pr_type;size:60;not null"`
	Level   string `gorm:"column:pr_level;size:60;not null"`
	Cascade bool   `gorm:"column:pr_cascade;not null;default:false"`
	Expiry  string `gorm:"column:pr_expiry;size:14"`
}

func (PageRestriction) TableName() string {
	return "page_restrictions"
}

// SearchIndex is the fulltext index row of a page. Only MySQL installs keep it.
type SearchIndex struct {
	Page  int64  `gorm:"column:si_page;primaryKey;autoIncrement:false"`
	Title string `gorm:"column:si_title;size:255"`
	Text  string `gorm:"column:si_text"`
}

func (SearchIndex) TableName() string {
	return "searchindex"
}
