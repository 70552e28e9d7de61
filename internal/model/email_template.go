// internal/model/email_template.go
package model

import "time"

// EmailTemplate is a named, reusable subject/body pair managed by the
// template CRUD endpoints and stored in Postgres.
type EmailTemplate struct {
    ID         int        `db:"id" json:"id"`
    Name       string     `db:"name" json:"name"`
    Subject    string     `db:"subject" json:"subject"`
    Body       string     `db:"body" json:"body"`
    SenderName string     `db:"sender_name" json:"sender_name"`
    CreatedAt  time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt  *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
