package core

import (
	"testing"
)

func TestConfig_DatabaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Engine = "postgres"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.Name = "testdb"
	cfg.Database.Username = "testuser"
	cfg.Database.Password = "testpassword"

	url := cfg.DatabaseURL()
	expected := "host=localhost port=5432 dbname=testdb user=testuser password=testpassword sslmode="
	if url != expected {
		t.Errorf("DatabaseURL() want = %s, got = %s", expected, url)
	}
}

func TestConfig_ListenAddress(t *testing.T) {
	cfg := &Config{Hostname: "127.0.0.1", Port: 1986}

	addr := cfg.ListenAddress()
	expected := "127.0.0.1:1986"
	if addr != expected {
		t.Errorf("ListenAddress() want = %s, got = %s", expected, addr)
	}
}

func TestConfig_PollIntervalDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.PollInterval(); got != 500 {
		t.Errorf("PollInterval() want = 500, got = %d", got)
	}

	cfg.Games.PollIntervalMs = 250
	if got := cfg.PollInterval(); got != 250 {
		t.Errorf("PollInterval() want = 250, got = %d", got)
	}
}
