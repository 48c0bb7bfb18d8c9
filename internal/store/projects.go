// ABOUTME: Project persistence: list, featured, lookup by id or slug, create, update, delete
// ABOUTME: String list fields are stored as JSON text columns

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var projectColumns = []string{
	"id", "slug", "title", "tagline", "summary", "problem", "contribution", "impact",
	"overview", "challenges", "solution", "outcomes", "stack", "tech",
	"featured", "hero_image", "created_at", "updated_at",
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	var overview, heroImage sql.NullString
	var challenges, solution, outcomes, stack, tech string
	var createdAt, updatedAt string

	if err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Tagline, &p.Summary, &p.Problem, &p.Contribution, &p.Impact,
		&overview, &challenges, &solution, &outcomes, &stack, &tech,
		&p.Featured, &heroImage, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	p.Overview = overview.String
	if p.Overview == "" {
		p.Overview = p.Summary
	}
	p.Challenges = decodeList(challenges)
	p.Solution = decodeList(solution)
	p.Outcomes = decodeList(outcomes)
	p.Stack = decodeList(stack)
	p.Tech = decodeList(tech)
	p.HeroImage = heroImage.String

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLStore) listProjects(ctx context.Context, where sq.Sqlizer) ([]*Project, error) {
	q := s.sb.Select(projectColumns...).From("projects").OrderBy("created_at DESC")
	if where != nil {
		q = q.Where(where)
	}

	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	projects := []*Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// ListProjects returns all projects, newest first.
func (s *SQLStore) ListProjects(ctx context.Context) ([]*Project, error) {
	return s.listProjects(ctx, nil)
}

// ListFeaturedProjects returns featured projects, newest first.
func (s *SQLStore) ListFeaturedProjects(ctx context.Context) ([]*Project, error) {
	return s.listProjects(ctx, sq.Eq{"featured": true})
}

func (s *SQLStore) getProject(ctx context.Context, where sq.Eq) (*Project, error) {
	row, err := s.queryRow(ctx, s.sb.Select(projectColumns...).From("projects").Where(where))
	if err != nil {
		return nil, err
	}
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying project: %w", err)
	}
	return p, nil
}

// GetProject retrieves a project by ID.
func (s *SQLStore) GetProject(ctx context.Context, id string) (*Project, error) {
	return s.getProject(ctx, sq.Eq{"id": id})
}

// GetProjectBySlug retrieves a project by slug.
func (s *SQLStore) GetProjectBySlug(ctx context.Context, slug string) (*Project, error) {
	return s.getProject(ctx, sq.Eq{"slug": slug})
}

// CreateProject inserts a project, assigning ID and timestamps.
func (s *SQLStore) CreateProject(ctx context.Context, p *Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.stamp(&p.CreatedAt, &p.UpdatedAt)

	_, err := s.exec(ctx, s.sb.Insert("projects").Columns(projectColumns...).Values(
		p.ID, p.Slug, p.Title, p.Tagline, p.Summary, p.Problem, p.Contribution, p.Impact,
		nullable(p.Overview), encodeList(p.Challenges), encodeList(p.Solution),
		encodeList(p.Outcomes), encodeList(p.Stack), encodeList(p.Tech),
		p.Featured, nullable(p.HeroImage), formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	))
	if err != nil {
		return writeErr("inserting project", err)
	}

	if p.Overview == "" {
		p.Overview = p.Summary
	}
	p.normalizeLists()
	return nil
}

// UpdateProject replaces every editable field of an existing project.
// On success p is refreshed from the database.
func (s *SQLStore) UpdateProject(ctx context.Context, p *Project) error {
	p.UpdatedAt = s.now()

	result, err := s.exec(ctx, s.sb.Update("projects").SetMap(map[string]any{
		"slug":         p.Slug,
		"title":        p.Title,
		"tagline":      p.Tagline,
		"summary":      p.Summary,
		"problem":      p.Problem,
		"contribution": p.Contribution,
		"impact":       p.Impact,
		"overview":     nullable(p.Overview),
		"challenges":   encodeList(p.Challenges),
		"solution":     encodeList(p.Solution),
		"outcomes":     encodeList(p.Outcomes),
		"stack":        encodeList(p.Stack),
		"tech":         encodeList(p.Tech),
		"featured":     p.Featured,
		"hero_image":   nullable(p.HeroImage),
		"updated_at":   formatTime(p.UpdatedAt),
	}).Where(sq.Eq{"id": p.ID}))
	if err != nil {
		return writeErr("updating project", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	fresh, err := s.GetProject(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *fresh
	return nil
}

// DeleteProject removes a project.
func (s *SQLStore) DeleteProject(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "projects", id)
}

// normalizeLists replaces nil lists with empty ones so JSON renders [].
func (p *Project) normalizeLists() {
	for _, list := range []*[]string{&p.Challenges, &p.Solution, &p.Outcomes, &p.Stack, &p.Tech} {
		if *list == nil {
			*list = []string{}
		}
	}
}
