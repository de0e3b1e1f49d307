package model

// RecentChange is an entry of the recent changes feed.
type RecentChange struct {
	ID        int64  `gorm:"column:rc_id;primaryKey;autoIncrement"`
	Timestamp string `gorm:"column:rc_timestamp;size:14;not null"`
	Actor     int64  `gorm:"column:rc_actor;not null;default:0"`
	Namespace int    `gorm:"column:rc_namespace;not null;index:rc_name_type_patrolled_timestamp"`
	Title     string `gorm:"column:rc_title;size:255;not null;index:rc_name_type_patrolled_timestamp"`
	CurID     int64  `gorm:"column:rc_cur_id;not null;default:0"`
	ThisOldID int64  `gorm:"column:rc_this_oldid;not null;default:0"`
	Type      int    `gorm:"column:rc_type;not null;default:0"`
}

func (RecentChange) TableName() string {
	return "recentchanges"
}

// LogEntry is a row of the logging table.
type LogEntry struct {
	ID        int64  `gorm:"column:log_id;primaryKey;autoIncrement"`
	Type      string `gorm:"column:log_type;size:32;not null"`
	Action    string `gorm:"column:log_action;size:32;not null"`
	Timestamp string `gorm:"column:log_timestamp;size:14;not null"`
	Actor     int64  `gorm:"column:log_actor;not null;default:0"`
	Namespace int    `gorm:"column:log_namespace;not null;index:log_page_time"`
	Title     string `gorm:"column:log_title;size:255;not null;index:log_page_time"`
	Page      int64  `gorm:"column:log_page"`
	Params    string `gorm:"column:log_params"`
}

func (LogEntry) TableName() string {
	return "logging"
}

// Watchlist is one user's watch of a title.
type Watchlist struct {
	ID                    int64  `gorm:"column:wl_id;primaryKey;autoIncrement"`
	User                  int64  `gorm:"column:wl_user;not null;uniqueIndex:wl_user"`
	Namespace             int    `gorm:"column:wl_namespace;not null;uniqueIndex:wl_user;index:wl_namespace_title"`
	Title                 string `gorm:"column:wl_title;size:255;not null;uniqueIndex:wl_user;index:wl_namespace_title"`
	NotificationTimestamp string `gorm:"column:wl_notificationtimestamp;size:14"`
}

func (Watchlist) TableName() string {
	return "watchlist"
}
