package db

import (
	"fmt"
	"path/filepath"

	puresqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Handle struct {
	DB     *gorm.DB
	Driver string
	Path   string // DSN albo ścieżka pliku sqlite
}

// Open otwiera ledger wg sterownika z configu.
// mysql/postgres: dsn wprost, sqlite (cgo) i sqlite-pure: plik, domyślnie <dir>/ss2pick.db
func Open(driver, dsn, dir string, log zerolog.Logger, level string) (*Handle, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite", "sqlite-pure", "":
		if dsn == "" {
			dsn = filepath.Join(dir, "ss2pick.db")
		}
		if driver == "sqlite" {
			dialector = sqlite.Open(dsn)
		} else {
			driver = "sqlite-pure"
			dialector = puresqlite.Open(dsn)
		}
	default:
		return nil, fmt.Errorf("nieznany sterownik bazy: %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(log, MapGormLogLevel(level)),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" || driver == "sqlite-pure" {
		// sqlite: jeden writer, tabele tymczasowe raportów QC żyją na połączeniu
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return &Handle{DB: gdb, Driver: driver, Path: dsn}, nil
}

// OpenAt – lokalny ledger sqlite w katalogu aplikacji
func OpenAt(dir string, log zerolog.Logger) (*Handle, error) {
	return Open("sqlite-pure", "", dir, log, "warn")
}

func (h *Handle) Close() error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
