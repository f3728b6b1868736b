package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

// SQLSTATE коды PostgreSQL, которые обрабатываются явно
const (
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeCheckViolation       = "23514"
	CodeSerializationFailure = "40001"
)

// As достает *pq.Error из цепочки ошибок
func As(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// IsUniqueViolation проверяет нарушение уникальности.
// Если constraint не пустой - дополнительно сверяет имя ограничения/индекса.
func IsUniqueViolation(err error, constraint string) bool {
	return is(err, CodeUniqueViolation, constraint)
}

// IsForeignKeyViolation проверяет нарушение внешнего ключа
func IsForeignKeyViolation(err error, constraint string) bool {
	return is(err, CodeForeignKeyViolation, constraint)
}

// IsCheckViolation проверяет нарушение CHECK ограничения
func IsCheckViolation(err error, constraint string) bool {
	return is(err, CodeCheckViolation, constraint)
}

func is(err error, code string, constraint string) bool {
	pqErr, ok := As(err)
	if !ok || string(pqErr.Code) != code {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
