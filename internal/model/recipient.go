// internal/model/recipient.go
package model

import "strings"

// RecipientRow is one CSV record as a column -> value mapping.
type RecipientRow map[string]string

// Email returns the value of the given email column, trimmed.
func (r RecipientRow) Email(emailColumn string) string {
    return strings.TrimSpace(r[emailColumn])
}
