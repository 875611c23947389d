package migrations

import (
	"database/sql"
)

// GetPerformanceMigrations returns performance optimization migrations
func GetPerformanceMigrations() []Migration {
	return []Migration{
		{
			Version: 10,
			Name:    "add_performance_indices",
			Up: func(db *sql.DB) error {
				// Add indices for better query performance
				indices := []string{
					"CREATE INDEX IF NOT EXISTS idx_lab_machines_name ON lab_machines(name)",
					"CREATE INDEX IF NOT EXISTS idx_lab_machines_guest ON lab_machines(guest)",
					"CREATE INDEX IF NOT EXISTS idx_lab_machines_instance ON lab_machines(instance)",
					"CREATE INDEX IF NOT EXISTS idx_lab_machines_ip_address ON lab_machines(ip_address)",
					"CREATE INDEX IF NOT EXISTS idx_labs_institution ON labs(institution)",
				}

				for _, indexSQL := range indices {
					if _, err := db.Exec(indexSQL); err != nil {
						return err
					}
				}

				return nil
			},
			Down: func(db *sql.DB) error {
				// Drop performance indices
				indices := []string{
					"DROP INDEX IF EXISTS idx_lab_machines_name",
					"DROP INDEX IF EXISTS idx_lab_machines_guest",
					"DROP INDEX IF EXISTS idx_lab_machines_instance",
					"DROP INDEX IF EXISTS idx_lab_machines_ip_address",
					"DROP INDEX IF EXISTS idx_labs_institution",
				}

				for _, dropSQL := range indices {
					if _, err := db.Exec(dropSQL); err != nil {
						return err
					}
				}

				return nil
			},
		},
	}
}
