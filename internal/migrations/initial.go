package migrations

import (
	"database/sql"
)

// GetInitialMigrations returns all initial migrations
func GetInitialMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_initial_tables",
			Up: func(db *sql.DB) error {
				// Create labs table
				_, err := db.Exec(`
					CREATE TABLE IF NOT EXISTS labs (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						name TEXT NOT NULL UNIQUE,
						institution TEXT NOT NULL,
						scenario TEXT NOT NULL,
						platform TEXT NOT NULL,
						instance_number INTEGER NOT NULL,
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
					)
				`)
				if err != nil {
					return err
				}

				// Create lab_machines table
				_, err = db.Exec(`
					CREATE TABLE IF NOT EXISTS lab_machines (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						lab_id INTEGER NOT NULL,
						name TEXT NOT NULL UNIQUE,
						guest TEXT NOT NULL,
						instance INTEGER NOT NULL,
						copy_number INTEGER NOT NULL,
						network TEXT NOT NULL,
						ip_address TEXT NOT NULL,
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						FOREIGN KEY (lab_id) REFERENCES labs(id) ON DELETE CASCADE
					)
				`)
				if err != nil {
					return err
				}

				// Create indexes for better performance
				_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_lab_machines_lab_id ON lab_machines(lab_id)`)
				if err != nil {
					return err
				}

				_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_labs_name ON labs(name)`)
				return err
			},
			Down: func(db *sql.DB) error {
				// Drop tables in reverse order due to foreign key constraints
				_, err := db.Exec(`DROP TABLE IF EXISTS lab_machines`)
				if err != nil {
					return err
				}

				_, err = db.Exec(`DROP TABLE IF EXISTS labs`)
				return err
			},
		},
	}
}
