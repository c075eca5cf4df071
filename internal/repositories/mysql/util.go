// internal/repositories/mysql/util.go
// Helper SQL bersama repos (placeholder IN, kolom DATE nullable).
package mysql

import (
	"database/sql"
	"strings"
	"time"
)

// placeholders menghasilkan "?,?,?" sebanyak n untuk klausa IN (...).
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// nullTime: zero time disimpan sebagai NULL (window terbuka).
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return nullTime(*t)
}

// timeOrZero kebalikan nullTime saat scan.
func timeOrZero(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// timePtr NULL -> nil (mis. cutoff_date belum tercapai).
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
