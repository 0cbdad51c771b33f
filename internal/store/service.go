package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satkunas/sticker-factory/backend-go/internal/template"
	"github.com/satkunas/sticker-factory/backend-go/internal/typeid"
)

var (
	ErrNotFound        = errors.New("template not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidDocument = errors.New("invalid template document")
)

// Service persists sticker templates. Documents are stored as the raw
// template JSON and validated on every write, so anything read back is
// guaranteed to render.
type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Template is the full stored record, document included.
type Template struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Shared      bool            `json:"shared"`
	Document    json.RawMessage `json:"document"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// Summary is a listing row without the document payload.
type Summary struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Shared      bool   `json:"shared"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func (s *Service) Create(ctx context.Context, ownerID, name, description string, doc *template.Template) (*Template, error) {
	if err := template.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}

	templateID := typeid.NewTemplateID()

	var createdAt, updatedAt time.Time
	err = s.pool.QueryRow(ctx, `
		INSERT INTO templates (id, owner_id, name, description, document)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		templateID, ownerID, name, description, docJSON,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	return &Template{
		ID:          templateID,
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Document:    docJSON,
		CreatedAt:   createdAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   updatedAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}

// Get returns a template readable by userID: its owner sees it always,
// everyone else only when it is shared.
func (s *Service) Get(ctx context.Context, templateID, userID string) (*Template, error) {
	var (
		t                    Template
		createdAt, updatedAt time.Time
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, description, shared, document, created_at, updated_at
		FROM templates WHERE id = $1`,
		templateID,
	).Scan(&t.ID, &t.OwnerID, &t.Name, &t.Description, &t.Shared, &t.Document, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	if t.OwnerID != userID && !t.Shared {
		return nil, ErrForbidden
	}

	t.CreatedAt = createdAt.Format("2006-01-02T15:04:05Z")
	t.UpdatedAt = updatedAt.Format("2006-01-02T15:04:05Z")
	return &t, nil
}

// GetDocument loads and parses the stored template document.
func (s *Service) GetDocument(ctx context.Context, templateID, userID string) (*template.Template, error) {
	t, err := s.Get(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}
	var doc template.Template
	if err := json.Unmarshal(t.Document, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal template %s: %w", templateID, err)
	}
	return &doc, nil
}

// LoadDocument fetches a template document without an access check. Preview
// rooms call this after the join handshake has already authorized the user.
func (s *Service) LoadDocument(ctx context.Context, templateID string) (*template.Template, error) {
	var raw json.RawMessage
	err := s.pool.QueryRow(ctx, `SELECT document FROM templates WHERE id = $1`, templateID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load template document: %w", err)
	}
	var doc template.Template
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal template %s: %w", templateID, err)
	}
	return &doc, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Summary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, name, description, shared, created_at, updated_at
		FROM templates WHERE owner_id = $1
		ORDER BY updated_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// ListShared returns the public gallery, newest first.
func (s *Service) ListShared(ctx context.Context) ([]Summary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, name, description, shared, created_at, updated_at
		FROM templates WHERE shared
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list shared templates: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// UpdateDocument replaces the stored document. Owner only.
func (s *Service) UpdateDocument(ctx context.Context, templateID, userID string, doc *template.Template) (*Template, error) {
	if err := template.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}

	if err := s.checkOwner(ctx, templateID, userID); err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE templates SET document = $2, updated_at = now()
		WHERE id = $1`,
		templateID, docJSON)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}

	return s.Get(ctx, templateID, userID)
}

// UpdateMeta renames a template or changes its description. Owner only.
func (s *Service) UpdateMeta(ctx context.Context, templateID, userID, name, description string) error {
	if err := s.checkOwner(ctx, templateID, userID); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		UPDATE templates SET name = $2, description = $3, updated_at = now()
		WHERE id = $1`,
		templateID, name, description)
	if err != nil {
		return fmt.Errorf("update template meta: %w", err)
	}
	return nil
}

// SetShared publishes or unpublishes a template. Owner only.
func (s *Service) SetShared(ctx context.Context, templateID, userID string, shared bool) error {
	if err := s.checkOwner(ctx, templateID, userID); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		UPDATE templates SET shared = $2, updated_at = now()
		WHERE id = $1`,
		templateID, shared)
	if err != nil {
		return fmt.Errorf("set template shared: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, templateID, userID string) error {
	if err := s.checkOwner(ctx, templateID, userID); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, templateID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

func (s *Service) checkOwner(ctx context.Context, templateID, userID string) error {
	var ownerID string
	err := s.pool.QueryRow(ctx, `SELECT owner_id FROM templates WHERE id = $1`, templateID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("check owner: %w", err)
	}
	if ownerID != userID {
		return ErrForbidden
	}
	return nil
}

func scanSummaries(rows pgx.Rows) ([]Summary, error) {
	var summaries []Summary
	for rows.Next() {
		var (
			s                    Summary
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.Shared, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan template row: %w", err)
		}
		s.CreatedAt = createdAt.Format("2006-01-02T15:04:05Z")
		s.UpdatedAt = updatedAt.Format("2006-01-02T15:04:05Z")
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
