package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/Simplici0/partnerdesk/internal/logger"
)

const (
	sqliteDialect = "sqlite3"
	migrationsDir = "sql"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Up runs all pending SQL migrations bundled with the binary.
func Up(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}

// Version reports the latest applied migration version.
func Version(db *sql.DB) (int64, error) {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect(sqliteDialect); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("get db version: %w", err)
	}
	return version, nil
}

// SetLogger routes goose output through l. A nil logger silences goose.
func SetLogger(l *logger.Logger) {
	if l == nil {
		goose.SetLogger(goose.NopLogger())
		return
	}
	goose.SetLogger(gooseLogger{log: l})
}

type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) ctx() context.Context {
	return g.log.WithField(context.Background(), "component", "goose")
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(g.ctx(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf keeps goose's contract: the process stops after the message is written.
func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(g.ctx(), strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
	os.Exit(1)
}
