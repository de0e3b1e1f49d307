package model

// Revision is a row of the current revision table.
type Revision struct {
	ID        int64  `gorm:"column:rev_id;primaryKey;autoIncrement"`
	Page      int64  `gorm:"column:rev_page;not null;index"`
	Actor     int64  `gorm:"column:rev_actor;not null;default:0"`
	Timestamp string `gorm:"column:rev_timestamp;size:14;not null"`
	MinorEdit bool   `gorm:"column:rev_minor_edit;not null;default:false"`
	Deleted   int    `gorm:"column:rev_deleted;not null;default:0"`
	Len       int    `gorm:"column:rev_len"`
	ParentID  int64  `gorm:"column:rev_parent_id"`
	Sha1      string `gorm:"column:rev_sha1;size:32"`
}

func (Revision) TableName() string {
	return "revision"
}

// Archive is a revision kept in the archive table after a regular deletion.
type Archive struct {
	ID        int64  `gorm:"column:ar_id;primaryKey;autoIncrement"`
	Namespace int    `gorm:"column:ar_namespace;not null;index:ar_name_title_timestamp"`
	Title     string `gorm:"column:ar_title;size:255;not null;index:ar_name_title_timestamp"`
	RevID     int64  `gorm:"column:ar_rev_id;not null;uniqueIndex"`
	PageID    int64  `gorm:"column:ar_page_id"`
	Actor     int64  `gorm:"column:ar_actor;not null;default:0"`
	Timestamp string `gorm:"column:ar_timestamp;size:14;not null"`
	MinorEdit bool   `gorm:"column:ar_minor_edit;not null;default:false"`
	Deleted   int    `gorm:"column:ar_deleted;not null;default:0"`
	Len       int    `gorm:"column:ar_len"`
	ParentID  int64  `gorm:"column:ar_parent_id"`
	Sha1      string `gorm:"column:ar_sha1;size:32"`
}

func (Archive) TableName() string {
	return "archive"
}

// RevisionRecord is a hydrated revision, loaded from either the revision or the
// archive table, with its slots.
type RevisionRecord struct {
	ID        int64
	PageID    int64
	Timestamp string
	Archived  bool
	Slots     []*SlotRecord
}

// SlotRecord is one role of a revision resolved to its content row.
type SlotRecord struct {
	RevisionID int64
	Role       string
	ContentID  int64
	Address    string
	Model      string
	Size       int
	Sha1       string
}
