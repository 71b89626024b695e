package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("ACCOUNT_NOT_FOUND")
	ErrAccountExists   = errors.New("ACCOUNT_EXISTS")
	ErrDraftNotFound   = errors.New("DRAFT_NOT_FOUND")
)

const (
	mysqlDuplicateEntry    = 1062
	postgresUniqueViolated = "23505"
)

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolated {
		return true
	}

	return false
}
