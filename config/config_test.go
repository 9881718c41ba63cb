package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	raw := []byte(`
http:
  address: ":8080"
database:
  host: "db"
  port: 5432
  user: "u"
  password: "p"
  name: "booking"
  ssl_mode: "disable"
kafka:
  brokers: ["localhost:9092"]
  reservations_topic: "reservation-events"
  checkin_topic: "checkin-events"
  notifications_topic: "notifications"
  group_id: "booking-worker"
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, raw, 0o600))

	cfg, err := LoadConfig(path)

	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=booking sslmode=disable", cfg.Database.DSN())
	// Check-in events carry their own topic, separate from reservations.
	assert.Equal(t, "checkin-events", cfg.Kafka.CheckinTopic)
	assert.Equal(t, "reservation-events", cfg.Kafka.ReservationsTopic)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Nil(t, cfg)
	assert.Error(t, err)
}
