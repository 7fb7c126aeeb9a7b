package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SandwichBooking/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")

	path := writeConfig(t, `
[server]
http_port = 9090

[database]
driver = "postgres"
host = "db"
dbname = "sandwiches"
user = "app"
password = "from-file"

[redis]
enabled = true
addr = "redis:6379"
idempotency_ttl = 60

[booking]
slot_duration_minutes = 10
default_start_time = "09:00"
default_end_time = "15:00"
default_max_orders = 6
default_location = "Lobby"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Contains(t, cfg.Database.DSN(), "dbname=sandwiches")
	assert.Equal(t, time.Minute, cfg.Redis.IdempotencyTTLDuration())

	booking, err := cfg.Booking.Domain()
	require.NoError(t, err)
	assert.Equal(t, 10, booking.SlotDurationMinutes)
	assert.Equal(t, types.TimeString("09:00"), booking.DefaultStartTime)
	assert.Equal(t, 6, booking.DefaultMaxOrders)
	assert.Equal(t, "Lobby", booking.DefaultLocation)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown driver", content: "[database]\ndriver = \"sqlite\"\n"},
		{name: "postgres without host", content: "[database]\ndriver = \"postgres\"\n"},
		{name: "bad slot duration", content: "[database]\ndriver = \"memory\"\n[booking]\nslot_duration_minutes = 0\n"},
		{name: "empty default window", content: "[database]\ndriver = \"memory\"\n[booking]\ndefault_start_time = \"18:00\"\ndefault_end_time = \"08:00\"\n"},
		{name: "default capacity out of bounds", content: "[database]\ndriver = \"memory\"\n[booking]\nmax_orders_per_slot = 5\ndefault_max_orders = 10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
