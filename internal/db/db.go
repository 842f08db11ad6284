package db

import (
	"log"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/sarafernandess/ifocus-app/internal/common"
)

// Connect opens the configured database or dies. The sqlite driver exists
// for local development and tests; production runs mysql.
func Connect(driver, dsn string) *gorm.DB {
	var dial gorm.Dialector
	switch driver {
	case "sqlite":
		dial = sqlite.Open(dsn)
	default:
		dial = mysql.Open(dsn)
	}

	gdb, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect (%s): %v", driver, err)
	}
	return gdb
}

// Transact runs fn in a transaction and retries once on a transient failure.
// Domain errors (conflict, not found, ...) are never retried; they reflect a
// logical outcome, not a broken connection.
func Transact(gdb *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := gdb.Transaction(fn)
	if err == nil || common.IsDomain(err) {
		return err
	}

	if err = gdb.Transaction(fn); err == nil {
		return nil
	}
	if common.IsDomain(err) {
		return err
	}
	log.Printf("db: transaction failed after retry: %v", err)
	return common.Unavailable("storage unavailable")
}
