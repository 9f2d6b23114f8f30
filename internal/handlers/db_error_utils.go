package handlers

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"bellaBack/internal/models"
)

// isForeignKeyConstraintError checks if the error corresponds to a
// MySQL/MariaDB foreign key constraint failure. This helps translate DB
// failures into clear client-facing validation responses instead of generic
// 500 errors.
func isForeignKeyConstraintError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1452
}

// validationMessage extracts the client-facing message from a validation
// error, or "" when the error is of another kind.
func validationMessage(err error) string {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return ""
}
