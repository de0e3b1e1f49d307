package store

import (
	"context"

	"github.com/emrgen/pagepurge/internal/model"
)

type Store interface {
	PageStore
	RevisionStore
	ContentStore
	FileStore
	CategoryStore
	UserStore
	// DeleteWhere deletes every row of the table behind table matching cond.
	DeleteWhere(ctx context.Context, table any, cond map[string]any) (int64, error)
	// Create inserts a row.
	Create(ctx context.Context, value any) error
	// Dialect returns the name of the underlying database dialect.
	Dialect() string
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type PageStore interface {
	// GetPage retrieves a page by ID.
	GetPage(ctx context.Context, id int64) (*model.Page, error)
	// GetPageByTitle retrieves a page by namespace and title key.
	GetPageByTitle(ctx context.Context, ns int, title string) (*model.Page, error)
	// ListPageCategories lists the categories a page is a member of.
	ListPageCategories(ctx context.Context, pageID int64) ([]string, error)
}

type RevisionStore interface {
	// ListRevisions hydrates the current revisions of a page with their slots.
	ListRevisions(ctx context.Context, pageID int64) ([]*model.RevisionRecord, error)
	// ListArchivedRevisions hydrates the archived revisions of a title with their slots.
	ListArchivedRevisions(ctx context.Context, ns int, title string) ([]*model.RevisionRecord, error)
}

type ContentStore interface {
	// CountOtherSlots counts slots pointing at a content row outside of a revision.
	CountOtherSlots(ctx context.Context, contentID int64, excludeRevID int64) (int64, error)
	// DeleteSlots deletes all slots of a revision.
	DeleteSlots(ctx context.Context, revID int64) (int64, error)
	// GetContent retrieves a content row by ID.
	GetContent(ctx context.Context, id int64) (*model.Content, error)
	// DeleteContent deletes a content row by ID.
	DeleteContent(ctx context.Context, id int64) (int64, error)
	// GetText retrieves a text row by ID.
	GetText(ctx context.Context, id int64) (*model.Text, error)
	// DeleteText deletes a text row by ID.
	DeleteText(ctx context.Context, id int64) (int64, error)
	// ListOrphanContent lists content rows no slot points at.
	ListOrphanContent(ctx context.Context, limit int) ([]*model.Content, error)
	// EnsureSlotRole returns the id of a slot role, creating it if needed.
	EnsureSlotRole(ctx context.Context, name string) (int64, error)
	// EnsureContentModel returns the id of a content model, creating it if needed.
	EnsureContentModel(ctx context.Context, name string) (int64, error)
}

type FileStore interface {
	// GetImage retrieves the current version of a file.
	GetImage(ctx context.Context, name string) (*model.Image, error)
	// ListOldImages lists the superseded versions of a file.
	ListOldImages(ctx context.Context, name string) ([]*model.OldImage, error)
	// DeleteImage deletes the current version row of a file.
	DeleteImage(ctx context.Context, name string) (int64, error)
	// DeleteOldImages deletes the superseded version rows of a file.
	DeleteOldImages(ctx context.Context, name string) (int64, error)
	// ListFileArchiveKeys lists the storage keys archived under a file name.
	ListFileArchiveKeys(ctx context.Context, name string) ([]string, error)
	// DeleteFileArchive deletes every archive row of a file name.
	DeleteFileArchive(ctx context.Context, name string) (int64, error)
	// CountFileArchiveKey counts archive rows still referencing a storage key.
	CountFileArchiveKey(ctx context.Context, key string) (int64, error)
}

type CategoryStore interface {
	// GetCategory retrieves a category row by title key.
	GetCategory(ctx context.Context, title string) (*model.Category, error)
	// CountCategoryMembers counts the members of a category per link type.
	CountCategoryMembers(ctx context.Context, title string) (map[string]int64, error)
	// UpdateCategory saves the counts of a category.
	UpdateCategory(ctx context.Context, cat *model.Category) error
	// DeleteCategory deletes a category row.
	DeleteCategory(ctx context.Context, id int64) error
}

type UserStore interface {
	// GetActorByName retrieves an actor by user name.
	GetActorByName(ctx context.Context, name string) (*model.Actor, error)
	// ListUserGroups lists the group memberships of a user.
	ListUserGroups(ctx context.Context, userID int64) ([]*model.UserGroup, error)
}
