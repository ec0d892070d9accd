package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeedSellers(t *testing.T) {
	sellers := ParseSeedSellers("Alonso:alonso@empresa.com, Andrea:andrea@empresa.com,broken,:x@y")

	assert.Equal(t, []SeedSeller{
		{Username: "Alonso", Email: "alonso@empresa.com"},
		{Username: "Andrea", Email: "andrea@empresa.com"},
	}, sellers)
	assert.Empty(t, ParseSeedSellers(""))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	sqlite := DatabaseConfig{Driver: "sqlite", Path: "ledger.db"}
	assert.Equal(t, "ledger.db", sqlite.DSN())

	pg := DatabaseConfig{Driver: "postgres", Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", pg.DSN())
}

func TestLoad_IdempotencyRequired(t *testing.T) {
	t.Setenv("IDEMPOTENCY_REQUIRED", "true")
	t.Setenv("UPLOAD_MAX_SIZE", "2048")

	cfg := Load()
	assert.True(t, cfg.Idempotency.Required)
	assert.Equal(t, int64(2048), cfg.Import.UploadMaxSize)
}
