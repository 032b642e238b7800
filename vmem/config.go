package vmem

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds memory system sizing and behaviour. Sizes are in KB.
type Config struct {
	// Sizing
	RAMSize  int `json:"ram_size" yaml:"ram_size" mapstructure:"ram_size"`    // RAM capacity in KB
	SwapSize int `json:"swap_size" yaml:"swap_size" mapstructure:"swap_size"` // Swap capacity in KB
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"` // Page and frame size in KB
	TLBSize  int `json:"tlb_size" yaml:"tlb_size" mapstructure:"tlb_size"`    // Number of TLB entries

	// Limits
	MaxProcesses  int `json:"max_processes" yaml:"max_processes" mapstructure:"max_processes"`
	MaxLogEntries int `json:"max_log_entries" yaml:"max_log_entries" mapstructure:"max_log_entries"`

	// Replacement
	ReplacementPolicy string `json:"replacement_policy" yaml:"replacement_policy" mapstructure:"replacement_policy"` // fifo, lru or 2q
	VerifyInvariants  bool   `json:"verify_invariants" yaml:"verify_invariants" mapstructure:"verify_invariants"`    // Check invariants after every mutation

	// Logging
	LogLevel       string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`                   // debug, info, warn, error
	LogFormat      string `json:"log_format" yaml:"log_format" mapstructure:"log_format"`                // text or json
	LogDirectory   string `json:"log_directory" yaml:"log_directory" mapstructure:"log_directory"`       // Where event log archives are written
	LogCompression string `json:"log_compression" yaml:"log_compression" mapstructure:"log_compression"` // none, snappy, lz4
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		RAMSize:           2048,
		SwapSize:          4096,
		PageSize:          256,
		TLBSize:           4,
		MaxProcesses:      50,
		MaxLogEntries:     1000,
		ReplacementPolicy: PolicyFIFO,
		VerifyInvariants:  false,
		LogLevel:          "info",
		LogFormat:         "text",
		LogDirectory:      ".",
		LogCompression:    CompressionNone,
	}
}

// LoadConfigFromFile loads configuration from a JSON file. Fields missing
// from the file keep their default values.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveToFile saves the configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// RAMFrames returns the number of RAM frames
func (c *Config) RAMFrames() int {
	return c.RAMSize / c.PageSize
}

// SwapFrames returns the number of swap slots
func (c *Config) SwapFrames() int {
	return c.SwapSize / c.PageSize
}

// PagesFor returns the number of pages needed for sizeKB, rounding up
func (c *Config) PagesFor(sizeKB int) int {
	return (sizeKB + c.PageSize - 1) / c.PageSize
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be greater than 0")
	}

	if c.RAMSize < c.PageSize {
		return fmt.Errorf("RAM size (%d KB) must hold at least one page of %d KB", c.RAMSize, c.PageSize)
	}

	if c.SwapSize < 0 {
		return fmt.Errorf("swap size cannot be negative")
	}

	if c.TLBSize <= 0 {
		return fmt.Errorf("TLB size must be greater than 0")
	}

	if c.MaxProcesses <= 0 {
		return fmt.Errorf("max processes must be greater than 0")
	}

	if c.MaxLogEntries <= 0 {
		return fmt.Errorf("max log entries must be greater than 0")
	}

	switch c.ReplacementPolicy {
	case PolicyFIFO, PolicyLRU, Policy2Q:
	default:
		return fmt.Errorf("invalid replacement policy: %s (must be fifo, lru, or 2q)", c.ReplacementPolicy)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}

	if _, err := ParseCompression(c.LogCompression); err != nil {
		return err
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
