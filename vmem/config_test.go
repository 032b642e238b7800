package vmem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.RAMSize != 2048 {
		t.Errorf("Expected RAM size 2048, got %d", config.RAMSize)
	}

	if config.SwapSize != 4096 {
		t.Errorf("Expected swap size 4096, got %d", config.SwapSize)
	}

	if config.PageSize != 256 {
		t.Errorf("Expected page size 256, got %d", config.PageSize)
	}

	if config.TLBSize != 4 {
		t.Errorf("Expected TLB size 4, got %d", config.TLBSize)
	}

	if config.ReplacementPolicy != PolicyFIFO {
		t.Errorf("Expected FIFO policy, got %s", config.ReplacementPolicy)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigDerivedCounts(t *testing.T) {
	config := DefaultConfig()
	config.RAMSize = 2100 // floor division drops the partial frame

	if config.RAMFrames() != 8 {
		t.Errorf("Expected 8 RAM frames, got %d", config.RAMFrames())
	}
	if config.SwapFrames() != 16 {
		t.Errorf("Expected 16 swap slots, got %d", config.SwapFrames())
	}

	pages := map[int]int{1: 1, 256: 1, 257: 2, 2048: 8, 300: 2}
	for size, want := range pages {
		if got := config.PagesFor(size); got != want {
			t.Errorf("PagesFor(%d) = %d, want %d", size, got, want)
		}
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		shouldErr bool
	}{
		{"Valid config", func(c *Config) {}, false},
		{"Zero page size", func(c *Config) { c.PageSize = 0 }, true},
		{"RAM smaller than a page", func(c *Config) { c.RAMSize = 100 }, true},
		{"Negative swap", func(c *Config) { c.SwapSize = -1 }, true},
		{"No swap", func(c *Config) { c.SwapSize = 0 }, false},
		{"Zero TLB", func(c *Config) { c.TLBSize = 0 }, true},
		{"Zero max processes", func(c *Config) { c.MaxProcesses = 0 }, true},
		{"Zero log entries", func(c *Config) { c.MaxLogEntries = 0 }, true},
		{"LRU policy", func(c *Config) { c.ReplacementPolicy = PolicyLRU }, false},
		{"Invalid policy", func(c *Config) { c.ReplacementPolicy = "clock" }, true},
		{"Invalid log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"Invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"Snappy compression", func(c *Config) { c.LogCompression = CompressionSnappy }, false},
		{"Invalid compression", func(c *Config) { c.LogCompression = "gzip" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)

			err := config.Validate()
			if tt.shouldErr && err == nil {
				t.Error("Expected validation error but got none")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no validation error but got: %v", err)
			}
		})
	}
}

func TestConfigSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vmemsim.json")

	original := DefaultConfig()
	original.RAMSize = 1024
	original.TLBSize = 8
	original.ReplacementPolicy = PolicyLRU

	if err := original.SaveToFile(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if *loaded != *original {
		t.Errorf("Loaded config %+v differs from saved %+v", loaded, original)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"ram_size": 4096}`), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.RAMSize != 4096 {
		t.Errorf("Expected RAM size 4096, got %d", config.RAMSize)
	}
	if config.PageSize != 256 {
		t.Errorf("Expected default page size, got %d", config.PageSize)
	}
}

func TestLoadConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"page_size": 0}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfigFromFile(path); err == nil {
		t.Error("Expected error for invalid configuration")
	}

	if _, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestConfigClone(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()

	clone.RAMSize = 1

	if original.RAMSize == 1 {
		t.Error("Modifying clone changed the original")
	}
}
