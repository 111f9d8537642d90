package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/buscount/buscount/pkg/dbh"
)

type Config struct {
	Port               int          `json:"port"`               // HTTP listen port
	DB                 dbh.DBConfig `json:"db"`                 // Frame record store
	MediaPath          string       `json:"mediaPath"`          // Root for per-upload working directories
	DetectorURL        string       `json:"detectorUrl"`        // Base URL of the face-detection service
	DetectorConfidence float32      `json:"detectorConfidence"` // Minimum detection confidence (0 = default)
	DetectorNmsIou     float32      `json:"detectorNmsIou"`     // Overlap-suppression IoU threshold (0 = default)
	DetectorTimeoutMS  int          `json:"detectorTimeoutMS"`  // Per-frame detection call timeout
	TargetRateHz       float64      `json:"targetRateHz"`       // Frame sampling rate (0 = 1 sample/second)
}

func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		filename = "buscount.json"
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Error loading %v: %w", filename, err)
	}
	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("Error loading as JSON %v: %w", filename, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.DB.Driver == "" {
		c.DB = dbh.MakeSqliteConfig("frame.sqlite")
	}
	if c.MediaPath == "" {
		c.MediaPath = "media"
	}
	if c.DetectorURL == "" {
		c.DetectorURL = "http://127.0.0.1:8081"
	}
	if c.DetectorTimeoutMS == 0 {
		c.DetectorTimeoutMS = 10000
	}
}
