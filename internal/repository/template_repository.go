// internal/repository/template_repository.go
package repository

import (
    "database/sql"

    "github.com/unclebandit/mailblast-backend/internal/model"
)

type TemplateRepositoryInterface interface {
    Save(t *model.EmailTemplate) error
    GetByName(name string) (*model.EmailTemplate, error)
    List() ([]model.EmailTemplate, error)
    Delete(name string) (bool, error)
}

// TemplateRepository stores named email templates in Postgres.
type TemplateRepository struct {
    DB *sql.DB
}

// Save inserts a template or updates the existing one with the same name.
func (r *TemplateRepository) Save(t *model.EmailTemplate) error {
    query := `
        INSERT INTO email_templates (name, subject, body, sender_name, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        ON CONFLICT (name) DO UPDATE
        SET subject = EXCLUDED.subject,
            body = EXCLUDED.body,
            sender_name = EXCLUDED.sender_name,
            updated_at = NOW()
        RETURNING id, created_at, updated_at
    `
    return r.DB.QueryRow(query, t.Name, t.Subject, t.Body, t.SenderName).
        Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// GetByName fetches one template; nil if it does not exist.
func (r *TemplateRepository) GetByName(name string) (*model.EmailTemplate, error) {
    query := `
        SELECT id, name, subject, body, sender_name, created_at, updated_at
        FROM email_templates
        WHERE name = $1
    `
    t := &model.EmailTemplate{}
    err := r.DB.QueryRow(query, name).Scan(
        &t.ID, &t.Name, &t.Subject, &t.Body, &t.SenderName, &t.CreatedAt, &t.UpdatedAt,
    )
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return t, nil
}

// List returns all templates, most recently updated first.
func (r *TemplateRepository) List() ([]model.EmailTemplate, error) {
    query := `
        SELECT id, name, subject, body, sender_name, created_at, updated_at
        FROM email_templates
        ORDER BY updated_at DESC
    `
    rows, err := r.DB.Query(query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var templates []model.EmailTemplate
    for rows.Next() {
        var t model.EmailTemplate
        if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.SenderName, &t.CreatedAt, &t.UpdatedAt); err != nil {
            return nil, err
        }
        templates = append(templates, t)
    }
    return templates, rows.Err()
}

// Delete removes a template by name; reports whether a row existed.
func (r *TemplateRepository) Delete(name string) (bool, error) {
    res, err := r.DB.Exec(`DELETE FROM email_templates WHERE name = $1`, name)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}
