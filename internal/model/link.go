package model

// Redirect is the target of a redirect page.
type Redirect struct {
	From      int64  `gorm:"column:rd_from;primaryKey;autoIncrement:false"`
	Namespace int    `gorm:"column:rd_namespace;not null"`
	Title     string `gorm:"column:rd_title;size:255;not null"`
	Interwiki string `gorm:"column:rd_interwiki;size:32"`
	Fragment  string `gorm:"column:rd_fragment;size:255"`
}

func (Redirect) TableName() string {
	return "redirect"
}

// ExternalLink is an outgoing link to an external URL.
type ExternalLink struct {
	ID            int64  `gorm:"column:el_id;primaryKey;autoIncrement"`
	From          int64  `gorm:"column:el_from;not null;index"`
	ToDomainIndex string `gorm:"column:el_to_domain_index;size:255;not null"`
	ToPath        string `gorm:"column:el_to_path"`
}

func (ExternalLink) TableName() string {
	return "externallinks"
}

// LangLink is an interlanguage link.
type LangLink struct {
	From  int64  `gorm:"column:ll_from;primaryKey;autoIncrement:false"`
	Lang  string `gorm:"column:ll_lang;primaryKey;size:35"`
	Title string `gorm:"column:ll_title;size:255;not null"`
}

func (LangLink) TableName() string {
	return "langlinks"
}

// PageLink is an internal page-to-page link.
type PageLink struct {
	From          int64 `gorm:"column:pl_from;primaryKey;autoIncrement:false"`
	TargetID      int64 `gorm:"column:pl_target_id;primaryKey;autoIncrement:false"`
	FromNamespace int   `gorm:"column:pl_from_namespace;not null"`
}

func (PageLink) TableName() string {
	return "pagelinks"
}

// CategoryLink is the membership of a page in a category.
type CategoryLink struct {
	From      int64  `gorm:"column:cl_from;primaryKey;autoIncrement:false"`
	To        string `gorm:"column:cl_to;primaryKey;size:255;index"`
	SortKey   string `gorm:"column:cl_sortkey;size:230"`
	Timestamp string `gorm:"column:cl_timestamp;size:14"`
	Type      string `gorm:"column:cl_type;size:6;not null;default:page"`
}

func (CategoryLink) TableName() string {
	return "categorylinks"
}

// Category link types.
const (
	CategoryLinkPage   = "page"
	CategoryLinkSubcat = "subcat"
	CategoryLinkFile   = "file"
)

// TemplateLink is a template transclusion.
type TemplateLink struct {
	From          int64 `gorm:"column:tl_from;primaryKey;autoIncrement:false"`
	TargetID      int64 `gorm:"column:tl_target_id;primaryKey;autoIncrement:false"`
	FromNamespace int   `gorm:"column:tl_from_namespace;not null"`
}

func (TemplateLink) TableName() string {
	return "templatelinks"
}

// ImageLink is a use of a file by a page.
type ImageLink struct {
	From          int64  `gorm:"column:il_from;primaryKey;autoIncrement:false"`
	To            string `gorm:"column:il_to;primaryKey;size:255"`
	FromNamespace int    `gorm:"column:il_from_namespace;not null"`
}

func (ImageLink) TableName() string {
	return "imagelinks"
}
