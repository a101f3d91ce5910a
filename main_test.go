package main

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lexhawkins/GameSoftware/assets"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BATTLESHIP_AUTO_START", "true")
	t.Setenv("BATTLESHIP_SEED", "abc")
	t.Setenv("DB_PATH", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CLIENT_ORIGIN", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("NODE_ENV", "")

	want := config{
		Port:          "9000",
		LogLevel:      "info",
		DBPath:        memoryDSN,
		SessionSecret: "dev_secret_change_me",
		ClientOrigin:  "http://localhost:5173",
		Seed:          "abc",
		AutoStart:     true,
	}
	if diff := cmp.Diff(want, loadConfig()); diff != "" {
		t.Errorf("unexpected config (-want +got)\n%s", diff)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("FLAG", "nope")
	if !envBool("FLAG", true) {
		t.Error("malformed value should fall back to the default")
	}
	t.Setenv("FLAG", "0")
	if envBool("FLAG", true) {
		t.Error(`"0" should parse as false`)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	for _, dsn := range []string{memoryDSN, filepath.Join(t.TempDir(), "data", "history.db")} {
		db, err := openDB(dsn)
		if err != nil {
			t.Fatalf("openDB(%s): %v", dsn, err)
		}
		for i := 0; i < 2; i++ {
			if err := migrate(db, assets.Migrations()); err != nil {
				t.Fatalf("migrate #%d on %s: %v", i+1, dsn, err)
			}
		}
		var n int
		if err := db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
			t.Fatalf("count migrations: %v", err)
		}
		if n != 1 {
			t.Errorf("%s: %d migrations recorded, want 1", dsn, n)
		}
		if _, err := db.Exec(`SELECT game_id FROM matches LIMIT 1`); err != nil {
			t.Errorf("%s: matches table missing: %v", dsn, err)
		}
		db.Close()
	}
}

func TestGameFactory(t *testing.T) {
	seeded := gameFactory(config{Seed: "s", AutoStart: true})
	a, b := seeded("session"), seeded("session")
	if diff := cmp.Diff(a.Reveal(), b.Reveal()); diff != "" {
		t.Errorf("same seed and session gave different fleets (-a +b)\n%s", diff)
	}

	g := seeded("other")
	g.PlacePlayerShip(0, 0, true)
	g.PlacePlayerShip(1, 0, true)
	g.PlacePlayerShip(2, 0, true)
	if g.Phase() != "playing" {
		t.Errorf("auto-start factory left phase %q", g.Phase())
	}
}
