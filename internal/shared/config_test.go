package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "muse.db" {
			t.Errorf("expected database path muse.db, got %s", config.Database.Path)
		}

		if config.Sync.AudioBatchSize != 50 {
			t.Errorf("expected audio batch size 50, got %d", config.Sync.AudioBatchSize)
		}

		if config.Sync.LyricBatchSize != 25 {
			t.Errorf("expected lyric batch size 25, got %d", config.Sync.LyricBatchSize)
		}

		if config.Sync.StaleDays != 7 {
			t.Errorf("expected stale days 7, got %d", config.Sync.StaleDays)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[sync]
audio_batch_size = 100
lyric_batch_size = 10
stale_days = 14

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"

[credentials.genius]
access_token = "test_genius_token"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Sync.AudioBatchSize != 100 {
			t.Errorf("expected audio batch size 100, got %d", config.Sync.AudioBatchSize)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Credentials.Genius.AccessToken != "test_genius_token" {
			t.Errorf("expected genius access_token test_genius_token, got %s", config.Credentials.Genius.AccessToken)
		}
	})
}
