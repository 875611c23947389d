package config

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cyrange/cyrange/internal/migrations"
	_ "modernc.org/sqlite"
)

// Config holds all configuration for the cyrange service. It is built
// once at process start and passed explicitly into the compiler and
// generators; nothing reads it as ambient state.
type Config struct {
	Platform                 string `yaml:"platform"`
	NetworkCIDRBlock         string `yaml:"network_cidr_block"`
	ServicesNetworkCIDRBlock string `yaml:"services_network_cidr_block"`
	InternetNetworkCIDRBlock string `yaml:"internet_network_cidr_block"`
	AnsibleForks             int    `yaml:"ansible_forks"`
	DBPath                   string `yaml:"db_path"`
	Port                     string `yaml:"port"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Platform:                 "libvirt",
		NetworkCIDRBlock:         "10.0.0.0/16",
		ServicesNetworkCIDRBlock: "192.168.4.0/24",
		InternetNetworkCIDRBlock: "192.168.8.0/24",
		AnsibleForks:             10,
		DBPath:                   "~/cyrange/data/cyrange.db",
		Port:                     "8080",
	}
}

// Load reads a YAML configuration file over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	c := NewConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return c, nil
}

// InitializeDatabase creates and configures the database connection
func (c *Config) InitializeDatabase() (*sql.DB, error) {
	dbPath := c.expandPath(c.DBPath)

	// Ensure database directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Apply performance optimizations
	OptimizeDatabaseConnection(db)

	if err := ApplyPragmaOptimizations(db); err != nil {
		return nil, fmt.Errorf("failed to apply performance optimizations: %w", err)
	}

	// Run migrations
	if err := c.runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// expandPath expands ~ to home directory
func (c *Config) expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Return original path if we can't get home dir
		return path
	}

	return filepath.Join(homeDir, path[2:])
}

// runMigrations runs all database migrations
func (c *Config) runMigrations(db *sql.DB) error {
	migrator := migrations.NewMigrator(db)

	// Add all migrations
	for _, migration := range migrations.GetInitialMigrations() {
		migrator.AddMigration(migration)
	}
	for _, migration := range migrations.GetPerformanceMigrations() {
		migrator.AddMigration(migration)
	}

	// Run migrations
	if err := migrator.RunMigrations(); err != nil {
		return err
	}

	return nil
}
