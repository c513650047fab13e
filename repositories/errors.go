package repositories

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"warbler/apperrors"
)

// translate maps driver errors onto apperrors kinds. what names the record
// for not-found messages.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.New(apperrors.KindNotFound, what+" not found", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), isSQLiteConstraint(err, sqlite3.ErrConstraintForeignKey):
		return apperrors.New(apperrors.KindNotFound, what+" references a missing record", err)
	case errors.Is(err, gorm.ErrDuplicatedKey), isSQLiteConstraint(err, sqlite3.ErrConstraintUnique), isSQLiteConstraint(err, sqlite3.ErrConstraintPrimaryKey):
		return apperrors.Constraint(what+" already exists", err)
	}
	return err
}

func isSQLiteConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrConstraint && sqliteErr.ExtendedCode == code
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
