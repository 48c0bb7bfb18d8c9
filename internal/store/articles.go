// ABOUTME: Article persistence ordered by publication date
// ABOUTME: Lookup by id or slug plus create, update and delete

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var articleColumns = []string{
	"id", "slug", "title", "excerpt", "content_html", "cover_image",
	"published_at", "reading_time", "created_at", "updated_at",
}

func scanArticle(row rowScanner) (*Article, error) {
	var a Article
	var coverImage sql.NullString
	var publishedAt, createdAt, updatedAt string

	if err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Excerpt, &a.ContentHTML, &coverImage,
		&publishedAt, &a.ReadingTime, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	a.CoverImage = coverImage.String

	var err error
	if a.PublishedAt, err = parseTime(publishedAt); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListArticles returns all articles, most recently published first.
func (s *SQLStore) ListArticles(ctx context.Context) ([]*Article, error) {
	rows, err := s.query(ctx, s.sb.Select(articleColumns...).From("articles").OrderBy("published_at DESC"))
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := []*Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}
	return articles, nil
}

func (s *SQLStore) getArticle(ctx context.Context, where sq.Eq) (*Article, error) {
	row, err := s.queryRow(ctx, s.sb.Select(articleColumns...).From("articles").Where(where))
	if err != nil {
		return nil, err
	}
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying article: %w", err)
	}
	return a, nil
}

// GetArticle retrieves an article by ID.
func (s *SQLStore) GetArticle(ctx context.Context, id string) (*Article, error) {
	return s.getArticle(ctx, sq.Eq{"id": id})
}

// GetArticleBySlug retrieves an article by slug.
func (s *SQLStore) GetArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	return s.getArticle(ctx, sq.Eq{"slug": slug})
}

// CreateArticle inserts an article, assigning ID and timestamps.
func (s *SQLStore) CreateArticle(ctx context.Context, a *Article) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	s.stamp(&a.CreatedAt, &a.UpdatedAt)

	_, err := s.exec(ctx, s.sb.Insert("articles").Columns(articleColumns...).Values(
		a.ID, a.Slug, a.Title, a.Excerpt, a.ContentHTML, nullable(a.CoverImage),
		formatTime(a.PublishedAt), a.ReadingTime, formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	))
	if err != nil {
		return writeErr("inserting article", err)
	}
	a.PublishedAt = a.PublishedAt.UTC()
	return nil
}

// UpdateArticle replaces every editable field of an existing article.
func (s *SQLStore) UpdateArticle(ctx context.Context, a *Article) error {
	a.UpdatedAt = s.now()

	result, err := s.exec(ctx, s.sb.Update("articles").SetMap(map[string]any{
		"slug":         a.Slug,
		"title":        a.Title,
		"excerpt":      a.Excerpt,
		"content_html": a.ContentHTML,
		"cover_image":  nullable(a.CoverImage),
		"published_at": formatTime(a.PublishedAt),
		"reading_time": a.ReadingTime,
		"updated_at":   formatTime(a.UpdatedAt),
	}).Where(sq.Eq{"id": a.ID}))
	if err != nil {
		return writeErr("updating article", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	fresh, err := s.GetArticle(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *fresh
	return nil
}

// DeleteArticle removes an article.
func (s *SQLStore) DeleteArticle(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "articles", id)
}
