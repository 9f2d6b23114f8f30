package repositories

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

func joinAssignments(assignments []string) string {
	return strings.Join(assignments, ", ")
}

// isDuplicateEntryError checks for a MySQL/MariaDB unique key violation
// (error 1062), used to translate duplicate emails and favorite double
// inserts into domain errors.
func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// matchesSkillFilter reports whether any required skill is present in the
// provider's skill set. Comparison is case-insensitive and ignores padding.
func matchesSkillFilter(required []string, available []string) bool {
	if len(required) == 0 {
		return true
	}
	availableSet := make(map[string]struct{}, len(available))
	for _, skill := range available {
		availableSet[strings.ToLower(strings.TrimSpace(skill))] = struct{}{}
	}
	for _, skill := range required {
		if _, ok := availableSet[strings.ToLower(strings.TrimSpace(skill))]; ok {
			return true
		}
	}
	return false
}
