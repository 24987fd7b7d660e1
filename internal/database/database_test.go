package database

import (
	"strings"
	"testing"

	"github.com/Gowsikakho/expense-track/internal/models"
)

func TestConfigURL(t *testing.T) {
	c := &Config{Host: "db", Port: "5432", User: "app", Password: "p@ss word", DBName: "ledger", SSLMode: "disable"}
	got := c.URL()
	if !strings.HasPrefix(got, "postgres://app:p%40ss%20word@db:5432/ledger") {
		t.Errorf("unexpected url %s", got)
	}
	if !strings.HasSuffix(got, "sslmode=disable") {
		t.Errorf("expected sslmode in %s", got)
	}
	if !strings.Contains(c.DSN(), "dbname=ledger") {
		t.Errorf("unexpected dsn %s", c.DSN())
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var up, down int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			up++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			down++
		}
	}
	if up == 0 || up != down {
		t.Errorf("expected paired migrations, got %d up / %d down", up, down)
	}
}

func TestSQLiteManager(t *testing.T) {
	m, err := NewManager(&Config{Driver: DriverSQLite, SQLitePath: "file::memory:"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Close()

	if err := m.RunMigrations(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, model := range models.All() {
		if !m.DB().Migrator().HasTable(model) {
			t.Errorf("expected table for %T", model)
		}
	}
	if !m.DB().Migrator().HasIndex(&models.SavingsEntry{}, "idx_savings_rollover") {
		t.Error("expected partial rollover index")
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := NewManager(&Config{Driver: "mysql"}); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
