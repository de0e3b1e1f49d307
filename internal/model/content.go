package model

// SlotRole maps role ids to names such as "main".
type SlotRole struct {
	ID   int64  `gorm:"column:role_id;primaryKey;autoIncrement"`
	Name string `gorm:"column:role_name;size:64;not null;uniqueIndex"`
}

func (SlotRole) TableName() string {
	return "slot_roles"
}

// ContentModel maps model ids to names such as "wikitext".
type ContentModel struct {
	ID   int64  `gorm:"column:model_id;primaryKey;autoIncrement"`
	Name string `gorm:"column:model_name;size:64;not null;uniqueIndex"`
}

func (ContentModel) TableName() string {
	return "content_models"
}

// Slot links a revision role to a content row. Content rows are shared between
// slots of different revisions.
type Slot struct {
	RevisionID int64 `gorm:"column:slot_revision_id;primaryKey;autoIncrement:false"`
	RoleID     int64 `gorm:"column:slot_role_id;primaryKey;autoIncrement:false"`
	ContentID  int64 `gorm:"column:slot_content_id;not null;index"`
	Origin     int64 `gorm:"column:slot_origin;not null"`
}

func (Slot) TableName() string {
	return "slots"
}

// Content points at the stored bytes through an address such as "tt:42".
type Content struct {
	ID      int64  `gorm:"column:content_id;primaryKey;autoIncrement"`
	Size    int    `gorm:"column:content_size;not null"`
	Sha1    string `gorm:"column:content_sha1;size:32;not null"`
	Model   int64  `gorm:"column:content_model;not null"`
	Address string `gorm:"column:content_address;size:255;not null"`
}

func (Content) TableName() string {
	return "content"
}

// Text is the legacy inline blob table.
type Text struct {
	ID    int64  `gorm:"column:old_id;primaryKey;autoIncrement"`
	Text  []byte `gorm:"column:old_text"`
	Flags string `gorm:"column:old_flags;size:255"`
}

func (Text) TableName() string {
	return "text"
}
