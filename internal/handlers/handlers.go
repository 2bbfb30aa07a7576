package handlers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"teamnet/internal/assets"
	"teamnet/internal/cache"
	"teamnet/internal/graph"
	"teamnet/internal/linkmeta"
	"teamnet/internal/mail"
	"teamnet/internal/views"
	"teamnet/pkg/logger"
)

// Store is the graph surface the entity handlers operate on. It is
// satisfied by *graph.Repository.
type Store interface {
	views.Graph

	CreateNode(ctx context.Context, label graph.Label, props map[string]interface{}) (string, error)
	NodeExists(ctx context.Context, label graph.Label, uid string) (bool, error)
	FindByProperty(ctx context.Context, label graph.Label, property string, value interface{}) (string, bool, error)
	UpdateNode(ctx context.Context, label graph.Label, uid string, fields map[string]interface{}) error
	DeleteNode(ctx context.Context, label graph.Label, uid string) error
	ListNames(ctx context.Context, label graph.Label) ([]graph.NameUID, error)

	Connect(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel, targetUID string) error
	Disconnect(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel, targetUID string) error
	DisconnectAll(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel) error
	ReplaceRelationship(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel, targetUIDs []string) error
	ReplaceSingle(ctx context.Context, src graph.Label, srcUID string, rel graph.Rel, targetUID *string) error

	TagUserOnPost(ctx context.Context, postUID, userUID string) error
	ReplaceTaggedUsers(ctx context.Context, postUID string, userUIDs []string) error
	MarkPostOpened(ctx context.Context, userUID, postUID string) error
	ReopenPostNotifications(ctx context.Context, postUID, exceptUserUID string) error

	QueryFulltext(ctx context.Context, index, term string) ([]graph.Scored, error)
	QueryFulltextVia(ctx context.Context, index, term string, via graph.Traversal) ([]graph.Scored, error)
	QueryPostsFulltext(ctx context.Context, term string) ([]graph.Scored, error)
	QueryPostsByAuthor(ctx context.Context, term string) ([]graph.Scored, error)
}

// Handlers bundles the per-entity handlers over one shared stack
type Handlers struct {
	Users     *Users
	Companies *Companies
	Softwares *Softwares
	Stacks    *Stacks
	Posts     *Posts
	Comments  *Comments
	Admin     *Admin
}

// Options carries the cross-cutting collaborators
type Options struct {
	Mail        mail.Sender
	Assets      assets.Store
	Links       linkmeta.Fetcher
	JWTSecret   string
	TokenExpiry int // days
}

// New wires the entity handlers
func New(store Store, builder *views.Builder, coord *cache.Coordinator, opts Options) *Handlers {
	base := &base{
		store:  store,
		views:  builder,
		coord:  coord,
		assets: opts.Assets,
		logger: logger.Get(),
	}
	return &Handlers{
		Users:     &Users{base: base, mail: opts.Mail, jwtSecret: opts.JWTSecret, tokenExpiryDays: opts.TokenExpiry},
		Companies: &Companies{base: base},
		Softwares: &Softwares{base: base},
		Stacks:    &Stacks{base: base},
		Posts:     &Posts{base: base, links: opts.Links},
		Comments:  &Comments{base: base},
		Admin:     &Admin{base: base},
	}
}

// base holds what every entity handler needs
type base struct {
	store  Store
	views  *views.Builder
	coord  *cache.Coordinator
	assets assets.Store
	logger *zap.Logger
}

// nameTaken reports whether another node of the label already uses the
// name, comparing case-insensitively
func (b *base) nameTaken(ctx context.Context, label graph.Label, name, excludeUID string) (bool, error) {
	names, err := b.store.ListNames(ctx, label)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n.UID != excludeUID && strings.EqualFold(n.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// clearSimple drops cached simple views synchronously so the next read
// recomputes them. Store failures are logged inside the coordinator.
func (b *base) clearSimple(ctx context.Context, entityType string, uids ...string) {
	keys := make([]string, 0, len(uids))
	for _, uid := range uids {
		keys = append(keys, cache.SimpleViewKey(entityType, uid))
	}
	b.coord.Clear(ctx, keys...)
}

// rollbackCreate removes a node whose relationship patch failed so a
// half-created entity never becomes visible
func (b *base) rollbackCreate(ctx context.Context, label graph.Label, uid string) {
	if err := b.store.DeleteNode(ctx, label, uid); err != nil {
		b.logger.Error("Failed to roll back node after patch error",
			zap.String("label", string(label)),
			zap.String("uid", uid),
			zap.Error(err))
	}
}

func (b *base) refreshUsers() {
	b.coord.Refresh(cache.KeyUsers, cache.CollectionTTL, func(ctx context.Context) (interface{}, error) {
		return b.views.RebuildUsers(ctx)
	})
}

func (b *base) refreshCompanies() {
	b.coord.Refresh(cache.KeyCompanies, cache.CollectionTTL, func(ctx context.Context) (interface{}, error) {
		return b.views.RebuildCompanies(ctx)
	})
}

func (b *base) refreshSoftwares() {
	b.coord.Refresh(cache.KeySoftwares, cache.CollectionTTL, func(ctx context.Context) (interface{}, error) {
		return b.views.RebuildSoftwares(ctx)
	})
}

func (b *base) refreshStacks() {
	b.coord.Refresh(cache.KeyStacks, cache.CollectionTTL, func(ctx context.Context) (interface{}, error) {
		return b.views.RebuildStacks(ctx)
	})
}

func simpleKey(entityType, uid string) string {
	return cache.SimpleViewKey(entityType, uid)
}

// setIfNotNil copies pointer-typed update fields into a props map
func setIfNotNil[T any](fields map[string]interface{}, key string, val *T) {
	if val != nil {
		fields[key] = *val
	}
}
