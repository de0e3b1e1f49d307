package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/emrgen/pagepurge/internal/blob"
	"github.com/emrgen/pagepurge/internal/cache"
	"github.com/emrgen/pagepurge/internal/cascade"
	"github.com/emrgen/pagepurge/internal/jobs"
	"github.com/emrgen/pagepurge/internal/model"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/sirupsen/logrus"
)

// PurgeService permanently deletes pages together with everything that
// references them.
type PurgeService struct {
	store     store.Store
	opts      Options
	blobs     *blob.Store
	slots     *cascade.SlotCascade
	files     *FileCleaner
	cache     cache.ExistenceCache
	scheduler jobs.Scheduler
	rights    *Rights
}

type Deps struct {
	Blobs     *blob.Store
	Files     *FileCleaner
	Cache     cache.ExistenceCache
	Scheduler jobs.Scheduler
	Rights    *Rights
}

func NewPurgeService(store store.Store, opts Options, deps Deps) *PurgeService {
	opts = opts.clone()
	if deps.Blobs == nil {
		deps.Blobs = blob.NewStore(nil, nil)
	}

	return &PurgeService{
		store:     store,
		opts:      opts,
		blobs:     deps.Blobs,
		slots:     cascade.NewSlotCascade(deps.Blobs, opts.DeleteContent),
		files:     deps.Files,
		cache:     deps.Cache,
		scheduler: deps.Scheduler,
		rights:    deps.Rights,
	}
}

func (s *PurgeService) Options() Options {
	return s.opts.clone()
}

// Resolve returns the reference of a deletable page, or ErrNotDeletable.
// The page must exist under a non-empty title in an eligible namespace that
// is not the special namespace. The id is always read from the store.
func (s *PurgeService) Resolve(ctx context.Context, ns int, title string) (model.PageRef, error) {
	title, ok := s.eligible(ns, title)
	if !ok {
		return model.PageRef{}, ErrNotDeletable
	}

	page, err := s.store.GetPageByTitle(ctx, ns, title)
	if errors.Is(err, store.ErrPageNotFound) {
		return model.PageRef{}, fmt.Errorf("%w: page does not exist", ErrNotDeletable)
	}
	if err != nil {
		return model.PageRef{}, err
	}

	s.remember(ctx, page)

	return page.Ref(), nil
}

func (s *PurgeService) eligible(ns int, title string) (string, bool) {
	title = model.DBKey(title)
	if title == "" || ns == model.NamespaceSpecial || !s.opts.Eligible(ns) {
		return "", false
	}

	return title, true
}

// IsDeletable reports whether the page at (ns, title) may be permanently
// deleted. A cached id answers without a query; the answer is advisory and
// Submit resolves again from the store.
func (s *PurgeService) IsDeletable(ctx context.Context, ns int, title string) (bool, error) {
	key, ok := s.eligible(ns, title)
	if !ok {
		return false, nil
	}

	if s.cache != nil {
		id, ok, err := s.cache.Lookup(ctx, ns, key)
		if err != nil {
			logrus.Warnf("existence cache lookup: %v", err)
		} else if ok && id != 0 {
			return true, nil
		}
	}

	_, err := s.Resolve(ctx, ns, title)
	if errors.Is(err, ErrNotDeletable) {
		return false, nil
	}

	return err == nil, err
}

// remember caches existing pages only, so a recreated title is never hidden.
func (s *PurgeService) remember(ctx context.Context, page *model.Page) {
	if s.cache == nil || page.ID == 0 {
		return
	}
	if err := s.cache.Remember(ctx, page.Namespace, page.Title, page.ID); err != nil {
		logrus.Warnf("existence cache remember: %v", err)
	}
}

// Submit deletes the page at (ns, title) on behalf of the named actor. The
// right and the eligibility are both checked again here against the store.
func (s *PurgeService) Submit(ctx context.Context, actorName string, ns int, title string) (*Report, error) {
	actor, err := s.store.GetActorByName(ctx, actorName)
	if errors.Is(err, store.ErrActorNotFound) {
		return nil, fmt.Errorf("%w: unknown actor %q", ErrPermissionDenied, actorName)
	}
	if err != nil {
		return nil, err
	}

	if s.rights == nil {
		return nil, fmt.Errorf("%w: no rights configured", ErrPermissionDenied)
	}
	ok, err := s.rights.HasRight(ctx, actor, RightDeletePerm)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s lacks %s", ErrPermissionDenied, actor.Name, RightDeletePerm)
	}

	ref, err := s.Resolve(ctx, ns, title)
	if err != nil {
		return nil, err
	}

	return s.DeletePermanently(ctx, ref, actor)
}

// DeletePermanently removes the page and its dependent rows in one
// transaction. The page under (ref.Namespace, ref.Title) must still carry
// ref.ID, otherwise nothing is deleted and ErrNotDeletable is returned. Any
// error rolls the store back to its prior state. After the commit, external
// blobs are deleted and category refreshes are scheduled; neither can fail
// the call.
func (s *PurgeService) DeletePermanently(ctx context.Context, ref model.PageRef, actor *model.Actor) (*Report, error) {
	if ref.ID == 0 || !ref.HasKey() {
		return nil, ErrNotDeletable
	}

	var actorID int64
	if actor != nil {
		actorID = actor.ID
	}

	log := logrus.WithFields(logrus.Fields{
		"page":      ref.ID,
		"namespace": ref.Namespace,
		"title":     ref.Title,
	})

	var (
		report     *Report
		categories []string
		external   []blob.Location
	)

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if err := checkPage(ctx, tx, ref); err != nil {
			return err
		}

		report = newReport(ref)
		cond := cascade.Conditions{SearchIndex: s.opts.SearchIndex}

		var err error
		categories, err = trackedCategories(ctx, tx, ref.ID)
		if err != nil {
			return err
		}

		if err := cascade.Run(ctx, tx, ref, cond, cascade.DirectPlan, report.Rows); err != nil {
			return err
		}

		slots := &cascade.SlotResult{}

		revs, err := tx.ListRevisions(ctx, ref.ID)
		if err != nil {
			return err
		}
		for _, rev := range revs {
			if err := s.slots.Revision(ctx, tx, rev, slots); err != nil {
				return err
			}
		}

		archived, err := tx.ListArchivedRevisions(ctx, ref.Namespace, ref.Title)
		if err != nil {
			return err
		}
		for _, rev := range archived {
			if err := s.slots.Revision(ctx, tx, rev, slots); err != nil {
				return err
			}
		}

		report.Revisions = len(revs)
		report.ArchivedRevisions = len(archived)
		report.Rows["slots"] += slots.Slots
		report.Rows["content"] += slots.ContentDeleted
		report.ContentDeleted = slots.ContentDeleted
		report.ContentKept = slots.ContentKept
		report.UnmappedAddresses = slots.Unmapped
		external = slots.External

		if err := cascade.Run(ctx, tx, ref, cond, cascade.RevisionPlan, report.Rows); err != nil {
			return err
		}
		if err := cascade.Run(ctx, tx, ref, cond, cascade.IndirectPlan, report.Rows); err != nil {
			return err
		}
		if err := cascade.Run(ctx, tx, ref, cond, cascade.PagePlan, report.Rows); err != nil {
			return err
		}

		if ref.Namespace == model.NamespaceFile && s.files != nil {
			return s.files.Clean(ctx, tx, ref.Title, s.opts.Reason, actorID, report)
		}

		return nil
	})
	if errors.Is(err, ErrNotDeletable) {
		log.Warnf("permanent deletion refused: %v", err)
		s.forget(ctx, ref)
		return nil, err
	}
	if err != nil {
		log.Errorf("permanent deletion rolled back: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrDeletionIncomplete, err)
	}

	log.Infof("page permanently deleted: %d rows removed", report.TotalRows())

	s.afterCommit(ctx, log, ref, report, categories, external)

	return report, nil
}

func (s *PurgeService) afterCommit(ctx context.Context, log *logrus.Entry, ref model.PageRef, report *Report, categories []string, external []blob.Location) {
	if len(external) > 0 {
		report.ExternalBlobs = len(external)
		if err := s.blobs.DeleteExternal(ctx, external); err != nil {
			log.Warnf("external blobs left behind: %v", err)
		}
	}

	s.forget(ctx, ref)

	if s.scheduler == nil {
		return
	}
	for _, category := range categories {
		task := jobs.NewCategoryRefresh(category)
		if err := s.scheduler.Schedule(context.WithoutCancel(ctx), task); err != nil {
			log.Warnf("schedule %s: %v", task, err)
			continue
		}
		report.Categories = append(report.Categories, category)
	}
}

func (s *PurgeService) forget(ctx context.Context, ref model.PageRef) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Forget(ctx, ref.Namespace, ref.Title); err != nil {
		logrus.Warnf("existence cache forget: %v", err)
	}
}

// checkPage fails with ErrNotDeletable when the title no longer belongs to
// ref.ID, for instance after a move or a recreation.
func checkPage(ctx context.Context, tx store.PageStore, ref model.PageRef) error {
	page, err := tx.GetPageByTitle(ctx, ref.Namespace, ref.Title)
	if errors.Is(err, store.ErrPageNotFound) {
		return fmt.Errorf("%w: page %d is no longer at %d:%s", ErrNotDeletable, ref.ID, ref.Namespace, ref.Title)
	}
	if err != nil {
		return err
	}
	if page.ID != ref.ID {
		return fmt.Errorf("%w: %d:%s now belongs to page %d, not %d", ErrNotDeletable, ref.Namespace, ref.Title, page.ID, ref.ID)
	}

	return nil
}

// trackedCategories lists the categories of a page that have a counts row.
// Links to categories without one have nothing to refresh.
func trackedCategories(ctx context.Context, tx store.Store, pageID int64) ([]string, error) {
	names, err := tx.ListPageCategories(ctx, pageID)
	if err != nil {
		return nil, err
	}

	var tracked []string
	for _, name := range names {
		_, err := tx.GetCategory(ctx, name)
		if errors.Is(err, store.ErrCategoryNotFound) {
			logrus.Debugf("category %s has no counts row, skipping refresh", name)
			continue
		}
		if err != nil {
			return nil, err
		}
		tracked = append(tracked, name)
	}

	return tracked, nil
}
