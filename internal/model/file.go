package model

// Storage groups of archived files.
const (
	StorageGroupDeleted = "deleted"
)

// Image is the current version of an uploaded file.
type Image struct {
	Name      string `gorm:"column:img_name;primaryKey;size:255"`
	Size      int64  `gorm:"column:img_size;not null;default:0"`
	Width     int    `gorm:"column:img_width;not null;default:0"`
	Height    int    `gorm:"column:img_height;not null;default:0"`
	MediaType string `gorm:"column:img_media_type;size:16"`
	MajorMime string `gorm:"column:img_major_mime;size:16"`
	MinorMime string `gorm:"column:img_minor_mime;size:100"`
	Actor     int64  `gorm:"column:img_actor;not null;default:0"`
	Timestamp string `gorm:"column:img_timestamp;size:14;not null"`
	Sha1      string `gorm:"column:img_sha1;size:32;index"`
}

func (Image) TableName() string {
	return "image"
}

// OldImage is a superseded version of an uploaded file.
type OldImage struct {
	Name        string `gorm:"column:oi_name;primaryKey;size:255"`
	ArchiveName string `gorm:"column:oi_archive_name;primaryKey;size:255"`
	Size        int64  `gorm:"column:oi_size;not null;default:0"`
	MajorMime   string `gorm:"column:oi_major_mime;size:16"`
	MinorMime   string `gorm:"column:oi_minor_mime;size:100"`
	Actor       int64  `gorm:"column:oi_actor;not null;default:0"`
	Timestamp   string `gorm:"column:oi_timestamp;size:14;not null"`
	Sha1        string `gorm:"column:oi_sha1;size:32;index"`
}

func (OldImage) TableName() string {
	return "oldimage"
}

// FileArchive indexes file versions moved into the deleted zone.
type FileArchive struct {
	ID               int64  `gorm:"column:fa_id;primaryKey;autoIncrement"`
	Name             string `gorm:"column:fa_name;size:255;not null;index"`
	ArchiveName      string `gorm:"column:fa_archive_name;size:255"`
	StorageGroup     string `gorm:"column:fa_storage_group;size:16"`
	StorageKey       string `gorm:"column:fa_storage_key;size:64;index"`
	DeletedUser      int64  `gorm:"column:fa_deleted_user"`
	DeletedTimestamp string `gorm:"column:fa_deleted_timestamp;size:14"`
	DeletedReason    string `gorm:"column:fa_deleted_reason"`
	Size             int64  `gorm:"column:fa_size;default:0"`
	MajorMime        string `gorm:"column:fa_major_mime;size:16"`
	MinorMime        string `gorm:"column:fa_minor_mime;size:100"`
	Actor            int64  `gorm:"column:fa_actor;not null;default:0"`
	Timestamp        string `gorm:"column:fa_timestamp;size:14"`
	Sha1             string `gorm:"column:fa_sha1;size:32"`
}

func (FileArchive) TableName() string {
	return "filearchive"
}
