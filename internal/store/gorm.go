package store

import (
	"context"
	"errors"

	"github.com/emrgen/pagepurge/internal/model"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) GetPage(ctx context.Context, id int64) (*model.Page, error) {
	var page model.Page
	err := g.db.WithContext(ctx).Where("page_id = ?", id).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}

	return &page, nil
}

func (g *GormStore) GetPageByTitle(ctx context.Context, ns int, title string) (*model.Page, error) {
	var page model.Page
	err := g.db.WithContext(ctx).Where("page_namespace = ? AND page_title = ?", ns, title).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}

	return &page, nil
}

func (g *GormStore) ListPageCategories(ctx context.Context, pageID int64) ([]string, error) {
	var names []string
	err := g.db.WithContext(ctx).Model(&model.CategoryLink{}).
		Where("cl_from = ?", pageID).
		Order("cl_to").
		Pluck("cl_to", &names).Error

	return names, err
}

// ListRevisions loads revision rows of a page and hydrates them the same way
// archived rows are hydrated.
func (g *GormStore) ListRevisions(ctx context.Context, pageID int64) ([]*model.RevisionRecord, error) {
	var revs []*model.Revision
	err := g.db.WithContext(ctx).Where("rev_page = ?", pageID).Order("rev_timestamp, rev_id").Find(&revs).Error
	if err != nil {
		return nil, err
	}

	records := make([]*model.RevisionRecord, 0, len(revs))
	for _, rev := range revs {
		records = append(records, &model.RevisionRecord{
			ID:        rev.ID,
			PageID:    rev.Page,
			Timestamp: rev.Timestamp,
		})
	}

	return records, g.hydrateSlots(ctx, records)
}

func (g *GormStore) ListArchivedRevisions(ctx context.Context, ns int, title string) ([]*model.RevisionRecord, error) {
	var rows []*model.Archive
	err := g.db.WithContext(ctx).
		Where("ar_namespace = ? AND ar_title = ?", ns, title).
		Order("ar_timestamp, ar_rev_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]*model.RevisionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &model.RevisionRecord{
			ID:        row.RevID,
			PageID:    row.PageID,
			Timestamp: row.Timestamp,
			Archived:  true,
		})
	}

	return records, g.hydrateSlots(ctx, records)
}

type slotRow struct {
	RevisionID int64  `gorm:"column:slot_revision_id"`
	Role       string `gorm:"column:role_name"`
	ContentID  int64  `gorm:"column:slot_content_id"`
	Address    string `gorm:"column:content_address"`
	Size       int    `gorm:"column:content_size"`
	Sha1       string `gorm:"column:content_sha1"`
	Model      string `gorm:"column:model_name"`
}

func (g *GormStore) hydrateSlots(ctx context.Context, records []*model.RevisionRecord) error {
	if len(records) == 0 {
		return nil
	}

	byID := make(map[int64]*model.RevisionRecord, len(records))
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
		ids = append(ids, rec.ID)
	}

	var rows []slotRow
	err := g.db.WithContext(ctx).Table("slots").
		Select("slots.slot_revision_id, COALESCE(slot_roles.role_name, '') AS role_name, slots.slot_content_id, " +
			"COALESCE(content.content_address, '') AS content_address, COALESCE(content.content_size, 0) AS content_size, " +
			"COALESCE(content.content_sha1, '') AS content_sha1, COALESCE(content_models.model_name, '') AS model_name").
		Joins("LEFT JOIN slot_roles ON slot_roles.role_id = slots.slot_role_id").
		Joins("LEFT JOIN content ON content.content_id = slots.slot_content_id").
		Joins("LEFT JOIN content_models ON content_models.model_id = content.content_model").
		Where("slots.slot_revision_id IN ?", ids).
		Order("slots.slot_revision_id, slots.slot_role_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		rec, ok := byID[row.RevisionID]
		if !ok {
			continue
		}
		rec.Slots = append(rec.Slots, &model.SlotRecord{
			RevisionID: row.RevisionID,
			Role:       row.Role,
			ContentID:  row.ContentID,
			Address:    row.Address,
			Model:      row.Model,
			Size:       row.Size,
			Sha1:       row.Sha1,
		})
	}

	return nil
}

func (g *GormStore) DeleteSlots(ctx context.Context, revID int64) (int64, error) {
	res := g.db.WithContext(ctx).Where("slot_revision_id = ?", revID).Delete(&model.Slot{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) CountOtherSlots(ctx context.Context, contentID int64, excludeRevID int64) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Slot{}).
		Where("slot_content_id = ? AND slot_revision_id <> ?", contentID, excludeRevID).
		Count(&count).Error

	return count, err
}

func (g *GormStore) GetContent(ctx context.Context, id int64) (*model.Content, error) {
	var content model.Content
	err := g.db.WithContext(ctx).Where("content_id = ?", id).First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &content, nil
}

func (g *GormStore) DeleteContent(ctx context.Context, id int64) (int64, error) {
	res := g.db.WithContext(ctx).Where("content_id = ?", id).Delete(&model.Content{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) GetText(ctx context.Context, id int64) (*model.Text, error) {
	var text model.Text
	err := g.db.WithContext(ctx).Where("old_id = ?", id).First(&text).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTextNotFound
	}
	if err != nil {
		return nil, err
	}

	return &text, nil
}

func (g *GormStore) DeleteText(ctx context.Context, id int64) (int64, error) {
	res := g.db.WithContext(ctx).Where("old_id = ?", id).Delete(&model.Text{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) ListOrphanContent(ctx context.Context, limit int) ([]*model.Content, error) {
	var contents []*model.Content
	err := g.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM slots WHERE slots.slot_content_id = content.content_id)").
		Order("content_id").
		Limit(limit).
		Find(&contents).Error

	return contents, err
}

func (g *GormStore) EnsureSlotRole(ctx context.Context, name string) (int64, error) {
	role := model.SlotRole{Name: name}
	err := g.db.WithContext(ctx).Where("role_name = ?", name).FirstOrCreate(&role).Error
	return role.ID, err
}

func (g *GormStore) EnsureContentModel(ctx context.Context, name string) (int64, error) {
	cm := model.ContentModel{Name: name}
	err := g.db.WithContext(ctx).Where("model_name = ?", name).FirstOrCreate(&cm).Error
	return cm.ID, err
}

func (g *GormStore) GetImage(ctx context.Context, name string) (*model.Image, error) {
	var img model.Image
	err := g.db.WithContext(ctx).Where("img_name = ?", name).First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	return &img, nil
}

func (g *GormStore) ListOldImages(ctx context.Context, name string) ([]*model.OldImage, error) {
	var olds []*model.OldImage
	err := g.db.WithContext(ctx).Where("oi_name = ?", name).Order("oi_timestamp").Find(&olds).Error
	return olds, err
}

func (g *GormStore) DeleteImage(ctx context.Context, name string) (int64, error) {
	res := g.db.WithContext(ctx).Where("img_name = ?", name).Delete(&model.Image{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) DeleteOldImages(ctx context.Context, name string) (int64, error) {
	res := g.db.WithContext(ctx).Where("oi_name = ?", name).Delete(&model.OldImage{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) ListFileArchiveKeys(ctx context.Context, name string) ([]string, error) {
	var keys []string
	err := g.db.WithContext(ctx).Model(&model.FileArchive{}).
		Where("fa_name = ? AND fa_storage_key <> ''", name).
		Order("fa_id").
		Pluck("fa_storage_key", &keys).Error

	return keys, err
}

func (g *GormStore) DeleteFileArchive(ctx context.Context, name string) (int64, error) {
	res := g.db.WithContext(ctx).Where("fa_name = ?", name).Delete(&model.FileArchive{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) CountFileArchiveKey(ctx context.Context, key string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.FileArchive{}).
		Where("fa_storage_group = ? AND fa_storage_key = ?", model.StorageGroupDeleted, key).
		Count(&count).Error

	return count, err
}

func (g *GormStore) GetCategory(ctx context.Context, title string) (*model.Category, error) {
	var cat model.Category
	err := g.db.WithContext(ctx).Where("cat_title = ?", title).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &cat, nil
}

type memberCount struct {
	Type  string `gorm:"column:cl_type"`
	Count int64  `gorm:"column:total"`
}

func (g *GormStore) CountCategoryMembers(ctx context.Context, title string) (map[string]int64, error) {
	var rows []memberCount
	err := g.db.WithContext(ctx).Model(&model.CategoryLink{}).
		Select("cl_type, COUNT(*) AS total").
		Where("cl_to = ?", title).
		Group("cl_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}

	return counts, nil
}

func (g *GormStore) UpdateCategory(ctx context.Context, cat *model.Category) error {
	return g.db.WithContext(ctx).Save(cat).Error
}

func (g *GormStore) DeleteCategory(ctx context.Context, id int64) error {
	return g.db.WithContext(ctx).Where("cat_id = ?", id).Delete(&model.Category{}).Error
}

func (g *GormStore) GetActorByName(ctx context.Context, name string) (*model.Actor, error) {
	var actor model.Actor
	err := g.db.WithContext(ctx).Where("actor_name = ?", name).First(&actor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrActorNotFound
	}
	if err != nil {
		return nil, err
	}

	return &actor, nil
}

func (g *GormStore) ListUserGroups(ctx context.Context, userID int64) ([]*model.UserGroup, error) {
	var groups []*model.UserGroup
	err := g.db.WithContext(ctx).Where("ug_user = ?", userID).Find(&groups).Error
	return groups, err
}

func (g *GormStore) DeleteWhere(ctx context.Context, table any, cond map[string]any) (int64, error) {
	res := g.db.WithContext(ctx).Where(cond).Delete(table)
	return res.RowsAffected, res.Error
}

func (g *GormStore) Create(ctx context.Context, value any) error {
	return g.db.WithContext(ctx).Create(value).Error
}

func (g *GormStore) Dialect() string {
	return g.db.Dialector.Name()
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
