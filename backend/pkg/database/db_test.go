package database

import (
	"io/fs"
	"strings"
	"testing"

	"pca-portal/backend/config"
)

func TestDialectorFor(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql"} {
		d, err := dialectorFor(&config.DatabaseConfig{Driver: driver, Host: "localhost", Port: 1, Name: "pca"})
		if err != nil {
			t.Fatalf("%s: erro inesperado: %v", driver, err)
		}
		if d.Name() != driver {
			t.Errorf("esperado dialeto %s, obtido %s", driver, d.Name())
		}
	}

	if _, err := dialectorFor(&config.DatabaseConfig{Driver: "sqlite"}); err == nil {
		t.Error("driver não suportado deveria falhar")
	}
}

func TestMigrationsEmbeddedPerDialect(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql"} {
		entries, err := fs.ReadDir(migrationsFS, "migrations/"+driver)
		if err != nil {
			t.Fatalf("%s: %v", driver, err)
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
			t.Errorf("%s: migrações up/down desbalanceadas (%d/%d)", driver, up, down)
		}
	}
}
