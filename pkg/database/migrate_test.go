package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/jadwal-api/pkg/config"
)

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, entry := range entries {
		switch {
		case strings.HasSuffix(entry.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(entry.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs)

	schema, err := fs.ReadFile(migrationsFS, "migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	for _, table := range []string{"courses", "rooms", "shifts", "lecturers", "students", "jadwal", "jadwal_lecturers", "jadwal_students", "pertemuan"} {
		assert.Contains(t, string(schema), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "jadwal", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=jadwal sslmode=disable", dsn)
}
