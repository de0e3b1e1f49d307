package model

// Actor is a principal that performs edits and deletions.
type Actor struct {
	ID   int64  `gorm:"column:actor_id;primaryKey;autoIncrement"`
	User int64  `gorm:"column:actor_user;index"`
	Name string `gorm:"column:actor_name;size:255;not null;uniqueIndex"`
}

func (Actor) TableName() string {
	return "actor"
}

// UserGroup is a group membership granting rights to a user.
type UserGroup struct {
	User   int64  `gorm:"column:ug_user;primaryKey;autoIncrement:false"`
	Group  string `gorm:"column:ug_group;primaryKey;size:255"`
	Expiry string `gorm:"column:ug_expiry;size:14"`
}

func (UserGroup) TableName() string {
	return "user_groups"
}
