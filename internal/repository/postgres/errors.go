package postgres

import (
	"errors"

	"github.com/lib/pq"
)

const uniqueViolation = pq.ErrorCode("23505")

// isUniqueViolation reports whether err is a PostgreSQL unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
