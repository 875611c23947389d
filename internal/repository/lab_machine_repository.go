package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net"

	"github.com/cyrange/cyrange/internal/domain"
)

// LabMachineRepository defines domain-specific operations for the
// machines recorded under a lab
type LabMachineRepository interface {
	Repository[domain.LabMachine, int64]
	FindByLabID(ctx context.Context, labID int64) ([]domain.LabMachine, error)
	FindByName(ctx context.Context, name string) (domain.LabMachine, error)
	FindByIPAddress(ctx context.Context, ipAddress string) (domain.LabMachine, error)
	SaveAll(ctx context.Context, labID int64, machines []domain.LabMachine) error
	DeleteByLabID(ctx context.Context, labID int64) error
}

// labMachineRepositoryImpl implements LabMachineRepository
type labMachineRepositoryImpl struct {
	db    *sql.DB
	stmts *PreparedStatementCache
}

// NewLabMachineRepository creates a new lab machine repository
func NewLabMachineRepository(db *sql.DB) LabMachineRepository {
	return &labMachineRepositoryImpl{
		db:    db,
		stmts: NewPreparedStatementCache(db),
	}
}

const labMachineColumns = "id, lab_id, name, guest, instance, copy_number, network, ip_address"

// Save creates or updates a lab machine
func (r *labMachineRepositoryImpl) Save(ctx context.Context, machine domain.LabMachine) (domain.LabMachine, error) {
	if machine.ID == 0 {
		return r.createMachine(ctx, machine)
	}
	return r.updateMachine(ctx, machine)
}

// createMachine inserts a new lab machine into the database
func (r *labMachineRepositoryImpl) createMachine(ctx context.Context, m domain.LabMachine) (domain.LabMachine, error) {
	if m.LabID == 0 {
		return domain.LabMachine{}, fmt.Errorf("lab ID is required")
	}
	if m.Name == "" {
		return domain.LabMachine{}, fmt.Errorf("machine name is required")
	}
	if net.ParseIP(m.IPAddress) == nil {
		return domain.LabMachine{}, fmt.Errorf("invalid IP address format: %s", m.IPAddress)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO lab_machines (lab_id, name, guest, instance, copy_number, network, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.LabID, m.Name, m.Guest, m.Instance, m.Copy, m.Network, m.IPAddress)
	if err != nil {
		return domain.LabMachine{}, fmt.Errorf("failed to create lab machine: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.LabMachine{}, fmt.Errorf("failed to get machine ID: %w", err)
	}

	m.ID = id
	return m, nil
}

// updateMachine updates an existing lab machine in the database
func (r *labMachineRepositoryImpl) updateMachine(ctx context.Context, m domain.LabMachine) (domain.LabMachine, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE lab_machines
		SET lab_id = ?, name = ?, guest = ?, instance = ?, copy_number = ?, network = ?, ip_address = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		m.LabID, m.Name, m.Guest, m.Instance, m.Copy, m.Network, m.IPAddress, m.ID)
	if err != nil {
		return domain.LabMachine{}, fmt.Errorf("failed to update lab machine: %w", err)
	}

	return m, nil
}

// SaveAll records the full machine set of a lab in one transaction.
func (r *labMachineRepositoryImpl) SaveAll(ctx context.Context, labID int64, machines []domain.LabMachine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lab_machines (lab_id, name, guest, instance, copy_number, network, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range machines {
		if _, err := stmt.ExecContext(ctx, labID, m.Name, m.Guest, m.Instance, m.Copy, m.Network, m.IPAddress); err != nil {
			return fmt.Errorf("failed to record machine %s: %w", m.Name, err)
		}
	}

	return tx.Commit()
}

// FindByID finds a lab machine by ID
func (r *labMachineRepositoryImpl) FindByID(ctx context.Context, id int64) (domain.LabMachine, error) {
	var m domain.LabMachine
	err := r.db.QueryRowContext(ctx,
		"SELECT "+labMachineColumns+" FROM lab_machines WHERE id = ?", id).Scan(
		&m.ID, &m.LabID, &m.Name, &m.Guest, &m.Instance, &m.Copy, &m.Network, &m.IPAddress)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.LabMachine{}, fmt.Errorf("machine with ID %d: %w", id, ErrNotFound)
		}
		return domain.LabMachine{}, fmt.Errorf("failed to find machine: %w", err)
	}
	return m, nil
}

// FindByName finds a lab machine by its canonical name
func (r *labMachineRepositoryImpl) FindByName(ctx context.Context, name string) (domain.LabMachine, error) {
	var m domain.LabMachine
	err := r.db.QueryRowContext(ctx,
		"SELECT "+labMachineColumns+" FROM lab_machines WHERE name = ?", name).Scan(
		&m.ID, &m.LabID, &m.Name, &m.Guest, &m.Instance, &m.Copy, &m.Network, &m.IPAddress)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.LabMachine{}, fmt.Errorf("machine with name %s: %w", name, ErrNotFound)
		}
		return domain.LabMachine{}, fmt.Errorf("failed to find machine: %w", err)
	}
	return m, nil
}

// FindByIPAddress finds a lab machine by assigned address
func (r *labMachineRepositoryImpl) FindByIPAddress(ctx context.Context, ipAddress string) (domain.LabMachine, error) {
	var m domain.LabMachine
	err := r.db.QueryRowContext(ctx,
		"SELECT "+labMachineColumns+" FROM lab_machines WHERE ip_address = ?", ipAddress).Scan(
		&m.ID, &m.LabID, &m.Name, &m.Guest, &m.Instance, &m.Copy, &m.Network, &m.IPAddress)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.LabMachine{}, fmt.Errorf("machine with IP %s: %w", ipAddress, ErrNotFound)
		}
		return domain.LabMachine{}, fmt.Errorf("failed to find machine: %w", err)
	}
	return m, nil
}

// FindByLabID finds all machines recorded for a lab. This is the hot
// query behind the machines listing, so the statement is cached.
func (r *labMachineRepositoryImpl) FindByLabID(ctx context.Context, labID int64) ([]domain.LabMachine, error) {
	stmt, err := r.stmts.Get(
		"SELECT " + labMachineColumns + " FROM lab_machines WHERE lab_id = ? ORDER BY instance, id")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare machine query: %w", err)
	}

	rows, err := stmt.QueryContext(ctx, labID)
	if err != nil {
		return nil, fmt.Errorf("failed to find machines: %w", err)
	}
	defer rows.Close()

	return scanLabMachines(rows)
}

// FindAll finds all lab machines
func (r *labMachineRepositoryImpl) FindAll(ctx context.Context) ([]domain.LabMachine, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+labMachineColumns+" FROM lab_machines ORDER BY lab_id, instance, id")
	if err != nil {
		return nil, fmt.Errorf("failed to find machines: %w", err)
	}
	defer rows.Close()

	return scanLabMachines(rows)
}

// scanLabMachines scans a result set into lab machine values
func scanLabMachines(rows *sql.Rows) ([]domain.LabMachine, error) {
	var machines []domain.LabMachine
	for rows.Next() {
		var m domain.LabMachine
		err := rows.Scan(&m.ID, &m.LabID, &m.Name, &m.Guest, &m.Instance, &m.Copy, &m.Network, &m.IPAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to scan machine: %w", err)
		}
		machines = append(machines, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating machines: %w", err)
	}

	return machines, nil
}

// DeleteByID deletes a lab machine by ID
func (r *labMachineRepositoryImpl) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM lab_machines WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete machine: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("machine with ID %d: %w", id, ErrNotFound)
	}

	return nil
}

// DeleteByLabID deletes all machines recorded for a lab
func (r *labMachineRepositoryImpl) DeleteByLabID(ctx context.Context, labID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM lab_machines WHERE lab_id = ?", labID)
	if err != nil {
		return fmt.Errorf("failed to delete lab machines: %w", err)
	}
	return nil
}

// ExistsByID checks if a lab machine exists by its ID
func (r *labMachineRepositoryImpl) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lab_machines WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check machine existence: %w", err)
	}
	return count > 0, nil
}
