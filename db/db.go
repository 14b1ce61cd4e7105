package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"foodgram/config"
	"foodgram/logging"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// Connect opens the database described by conf (sqlite3 by default) and
// runs the migrations when conf.AutoMigrate is set.
func Connect(conf config.Configuration) (*gorm.DB, error) {
	log := logging.WithComponent("db")

	var (
		db  *gorm.DB
		err error
	)

	if conf.IsSQLite() {
		path := conf.DbPath
		if path == "" {
			path = "db/database.db"
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("db: creating %s: %w", dir, err)
			}
		}
		log.Info().Str("path", path).Msg("using sqlite3")
		db, err = Open("sqlite3", path)
	} else {
		log.Info().Str("host", conf.DbHost).Str("name", conf.DbName).Msg("using postgres")
		dsn := "host=" + conf.DbHost + " port=" + conf.DbPort
		dsn += " user=" + conf.DbUser + " dbname=" + conf.DbName
		dsn += " password=" + conf.DbPass + " sslmode=" + conf.DbSSLMode
		db, err = Open("postgres", dsn)
	}
	if err != nil {
		log.Error().Err(err).Msg("could not connect to database")
		return nil, err
	}

	db.LogMode(strings.EqualFold(conf.LogLevel, "debug"))

	if conf.AutoMigrate {
		if err := Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Msg("migrations applied")
	}

	return db, nil
}

// Open opens a gorm connection with the zerolog-backed SQL logger.
// sqlite is limited to one connection: writers would otherwise race for the
// file lock, and ":memory:" databases are per connection.
func Open(driver, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", driver, err)
	}
	db.SetLogger(gormLogger{})
	if driver == "sqlite3" {
		db.DB().SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			db.Close()
			return nil, fmt.Errorf("db: enabling foreign keys: %w", err)
		}
	}
	return db, nil
}

type gormLogger struct{}

func (gormLogger) Print(v ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprint(gorm.LogFormatter(v...)...))
	logging.Debug().Str("component", "gorm").Msg(msg)
}
