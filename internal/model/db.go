package model

import "gorm.io/gorm"

// Tables lists every table the purge touches, in creation order.
func Tables() []any {
	return []any{
		&Page{},
		&Revision{},
		&Archive{},
		&SlotRole{},
		&ContentModel{},
		&Content{},
		&Slot{},
		&Text{},
		&Redirect{},
		&ExternalLink{},
		&LangLink{},
		&SearchIndex{},
		&PageRestriction{},
		&PageLink{},
		&CategoryLink{},
		&TemplateLink{},
		&ImageLink{},
		&RecentChange{},
		&LogEntry{},
		&Watchlist{},
		&Category{},
		&Image{},
		&OldImage{},
		&FileArchive{},
		&Actor{},
		&UserGroup{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, table := range Tables() {
		if err := db.AutoMigrate(table); err != nil {
			return err
		}
	}

	return nil
}
