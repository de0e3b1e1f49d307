package tester

import (
	"fmt"
	"testing"

	"github.com/emrgen/pagepurge/internal/model"
	"gorm.io/gorm"
)

// Fixture writes wiki rows for tests. Every helper fails the test on error.
type Fixture struct {
	t  testing.TB
	db *gorm.DB
}

func NewFixture(t testing.TB, db *gorm.DB) *Fixture {
	return &Fixture{t: t, db: db}
}

func (f *Fixture) create(value any) {
	f.t.Helper()
	if err := f.db.Create(value).Error; err != nil {
		f.t.Fatalf("create %T: %v", value, err)
	}
}

// Page creates a page row with an explicit id.
func (f *Fixture) Page(id int64, ns int, title string) *model.Page {
	f.t.Helper()
	page := &model.Page{ID: id, Namespace: ns, Title: title, Touched: "20240101000000"}
	f.create(page)
	return page
}

// Text creates a legacy text row and returns its "tt:" address.
func (f *Fixture) Text(data string) (int64, string) {
	f.t.Helper()
	text := &model.Text{Text: []byte(data), Flags: "utf-8"}
	f.create(text)
	return text.ID, fmt.Sprintf("tt:%d", text.ID)
}

// Content creates a content row pointing at address.
func (f *Fixture) Content(address string) *model.Content {
	f.t.Helper()
	cm := model.ContentModel{Name: "wikitext"}
	if err := f.db.Where("model_name = ?", cm.Name).FirstOrCreate(&cm).Error; err != nil {
		f.t.Fatalf("content model: %v", err)
	}

	content := &model.Content{Size: len(address), Sha1: "phoiac9h4m842xq45sp7s6u21eteeq1", Model: cm.ID, Address: address}
	f.create(content)
	return content
}

// TextContent creates a text row and a content row for it.
func (f *Fixture) TextContent(data string) *model.Content {
	f.t.Helper()
	_, address := f.Text(data)
	return f.Content(address)
}

// Revision creates a revision of page and main slots for the given contents.
func (f *Fixture) Revision(id int64, page int64, contents ...*model.Content) *model.Revision {
	f.t.Helper()
	rev := &model.Revision{ID: id, Page: page, Timestamp: fmt.Sprintf("2024010100%04d", id%10000)}
	f.create(rev)
	f.Slots(id, contents...)
	return rev
}

// ArchivedRevision creates an archive row and its slots.
func (f *Fixture) ArchivedRevision(revID int64, ns int, title string, contents ...*model.Content) *model.Archive {
	f.t.Helper()
	ar := &model.Archive{Namespace: ns, Title: title, RevID: revID, Timestamp: fmt.Sprintf("2023010100%04d", revID%10000)}
	f.create(ar)
	f.Slots(revID, contents...)
	return ar
}

// Slots attaches contents to a revision, the first one under the "main" role.
func (f *Fixture) Slots(revID int64, contents ...*model.Content) {
	f.t.Helper()
	for i, content := range contents {
		name := "main"
		if i > 0 {
			name = fmt.Sprintf("aux%d", i)
		}
		role := model.SlotRole{Name: name}
		if err := f.db.Where("role_name = ?", name).FirstOrCreate(&role).Error; err != nil {
			f.t.Fatalf("slot role: %v", err)
		}
		f.create(&model.Slot{RevisionID: revID, RoleID: role.ID, ContentID: content.ID, Origin: revID})
	}
}

// Links creates one row in every id-keyed link table of page.
func (f *Fixture) Links(page *model.Page) {
	f.t.Helper()
	f.create(&model.Redirect{From: page.ID, Namespace: 0, Title: "Target"})
	f.create(&model.ExternalLink{From: page.ID, ToDomainIndex: "https://org.example.", ToPath: "/"})
	f.create(&model.LangLink{From: page.ID, Lang: "de", Title: "Ziel"})
	f.create(&model.SearchIndex{Page: page.ID, Title: page.Title, Text: "body"})
	f.create(&model.PageRestriction{Page: page.ID, Type: "edit", Level: "sysop", Expiry: "infinity"})
	f.create(&model.PageLink{From: page.ID, TargetID: 1, FromNamespace: page.Namespace})
	f.create(&model.TemplateLink{From: page.ID, TargetID: 2, FromNamespace: page.Namespace})
	f.create(&model.ImageLink{From: page.ID, To: "Logo.png", FromNamespace: page.Namespace})
}

// Category makes page a member of category and creates the category row.
func (f *Fixture) Category(page *model.Page, category string, linkType string) {
	f.t.Helper()
	f.create(&model.CategoryLink{From: page.ID, To: category, SortKey: page.Title, Type: linkType})

	cat := model.Category{Title: category}
	if err := f.db.Where("cat_title = ?", category).FirstOrCreate(&cat).Error; err != nil {
		f.t.Fatalf("category: %v", err)
	}
}

// History creates title-keyed rows: a recent change, a log entry, an archive
// row without slots and a watchlist entry on the title and its talk page.
func (f *Fixture) History(ns int, title string, user int64) {
	f.t.Helper()
	f.create(&model.RecentChange{Namespace: ns, Title: title, Timestamp: "20240101000000"})
	f.create(&model.LogEntry{Type: "create", Action: "create", Namespace: ns, Title: title, Timestamp: "20240101000000"})
	f.create(&model.Watchlist{User: user, Namespace: ns, Title: title})
	if assoc, ok := model.Associated(ns); ok {
		f.create(&model.Watchlist{User: user, Namespace: assoc, Title: title})
	}
}

// Image creates the current version row of a file.
func (f *Fixture) Image(name string, sha1 string) *model.Image {
	f.t.Helper()
	img := &model.Image{Name: name, Size: 3, MajorMime: "image", MinorMime: "png", Timestamp: "20240101000000", Sha1: sha1}
	f.create(img)
	return img
}

// OldImage creates a superseded version row of a file.
func (f *Fixture) OldImage(name string, archiveName string, sha1 string) *model.OldImage {
	f.t.Helper()
	old := &model.OldImage{Name: name, ArchiveName: archiveName, Size: 3, Timestamp: "20230101000000", Sha1: sha1}
	f.create(old)
	return old
}

// FileArchive creates an archive index row.
func (f *Fixture) FileArchive(name string, key string) *model.FileArchive {
	f.t.Helper()
	fa := &model.FileArchive{Name: name, StorageGroup: model.StorageGroupDeleted, StorageKey: key, Timestamp: "20220101000000"}
	f.create(fa)
	return fa
}

// User creates an actor and grants it the groups.
func (f *Fixture) User(id int64, name string, groups ...string) *model.Actor {
	f.t.Helper()
	actor := &model.Actor{User: id, Name: name}
	f.create(actor)
	for _, group := range groups {
		f.create(&model.UserGroup{User: id, Group: group})
	}
	return actor
}
