package blogpulse

import (
	"context"
	"database/sql"
	"errors"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Posts is the blog post store. Posts are plain I/O for this service; the
// interesting part is that Create only ever runs behind the authorization
// gate.
type Posts interface {
	Create(ctx context.Context, post *Post) (*Post, error)
	ListPreviews(ctx context.Context) ([]Post, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
}

type posts struct {
	db *bun.DB
}

var _ Posts = (*posts)(nil)

func NewPostsRepository(db *bun.DB) Posts {
	return &posts{db: db}
}

func (r *posts) Create(ctx context.Context, post *Post) (*Post, error) {
	_, err := r.db.NewInsert().
		Model(post).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return nil, wrapStoreError(err, "could not create post")
	}
	return post, nil
}

// ListPreviews returns all posts, newest first, with content truncated for
// the index view.
func (r *posts) ListPreviews(ctx context.Context) ([]Post, error) {
	var records []Post

	err := r.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Post{}, nil
		}
		return nil, wrapStoreError(err, "failed to list posts")
	}

	previews := make([]Post, len(records))
	for i, record := range records {
		previews[i] = record.Preview()
	}
	return previews, nil
}

func (r *posts) GetByID(ctx context.Context, id int64) (*Post, error) {
	record := &Post{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id,
				})
		}
		return nil, wrapStoreError(err, "failed to fetch post")
	}

	return record, nil
}
