package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cyrange/cyrange/internal/domain"
)

// LabRepository defines domain-specific operations for recorded labs
type LabRepository interface {
	Repository[domain.Lab, int64]
	FindByName(ctx context.Context, name string) (domain.Lab, error)
	FindByInstitution(ctx context.Context, institution string) ([]domain.Lab, error)
	DeleteByName(ctx context.Context, name string) error
}

// labRepositoryImpl implements LabRepository
type labRepositoryImpl struct {
	db *sql.DB
}

// NewLabRepository creates a new lab repository
func NewLabRepository(db *sql.DB) LabRepository {
	return &labRepositoryImpl{
		db: db,
	}
}

// Save creates or updates a lab
func (r *labRepositoryImpl) Save(ctx context.Context, lab domain.Lab) (domain.Lab, error) {
	if lab.ID == 0 {
		return r.createLab(ctx, lab)
	}
	return r.updateLab(ctx, lab)
}

// createLab inserts a new lab into the database
func (r *labRepositoryImpl) createLab(ctx context.Context, lab domain.Lab) (domain.Lab, error) {
	if lab.Name == "" {
		return domain.Lab{}, fmt.Errorf("lab name is required")
	}
	if lab.Institution == "" {
		return domain.Lab{}, fmt.Errorf("lab institution is required")
	}
	if lab.InstanceNumber < 1 {
		return domain.Lab{}, fmt.Errorf("lab instance number must be positive")
	}

	// Check for duplicate name
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM labs WHERE name = ?", lab.Name).Scan(&count)
	if err != nil {
		return domain.Lab{}, fmt.Errorf("failed to check for duplicate lab name: %w", err)
	}
	if count > 0 {
		return domain.Lab{}, fmt.Errorf("lab with name '%s': %w", lab.Name, ErrDuplicate)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO labs (name, institution, scenario, platform, instance_number)
		VALUES (?, ?, ?, ?, ?)`,
		lab.Name, lab.Institution, lab.Scenario, lab.Platform, lab.InstanceNumber)
	if err != nil {
		return domain.Lab{}, fmt.Errorf("failed to create lab: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.Lab{}, fmt.Errorf("failed to get lab ID: %w", err)
	}

	lab.ID = id
	return lab, nil
}

// updateLab updates an existing lab in the database
func (r *labRepositoryImpl) updateLab(ctx context.Context, lab domain.Lab) (domain.Lab, error) {
	if lab.Name == "" {
		return domain.Lab{}, fmt.Errorf("lab name is required")
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE labs
		SET name = ?, institution = ?, scenario = ?, platform = ?, instance_number = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		lab.Name, lab.Institution, lab.Scenario, lab.Platform, lab.InstanceNumber, lab.ID)
	if err != nil {
		return domain.Lab{}, fmt.Errorf("failed to update lab: %w", err)
	}

	return lab, nil
}

// FindByID finds a lab by ID
func (r *labRepositoryImpl) FindByID(ctx context.Context, id int64) (domain.Lab, error) {
	var lab domain.Lab
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, institution, scenario, platform, instance_number
		FROM labs WHERE id = ?`, id).Scan(
		&lab.ID, &lab.Name, &lab.Institution, &lab.Scenario, &lab.Platform, &lab.InstanceNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Lab{}, fmt.Errorf("lab with ID %d: %w", id, ErrNotFound)
		}
		return domain.Lab{}, fmt.Errorf("failed to find lab: %w", err)
	}
	return lab, nil
}

// FindByName finds a lab by name
func (r *labRepositoryImpl) FindByName(ctx context.Context, name string) (domain.Lab, error) {
	var lab domain.Lab
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, institution, scenario, platform, instance_number
		FROM labs WHERE name = ?`, name).Scan(
		&lab.ID, &lab.Name, &lab.Institution, &lab.Scenario, &lab.Platform, &lab.InstanceNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Lab{}, fmt.Errorf("lab with name '%s': %w", name, ErrNotFound)
		}
		return domain.Lab{}, fmt.Errorf("failed to find lab: %w", err)
	}
	return lab, nil
}

// FindByInstitution finds all labs recorded for an institution
func (r *labRepositoryImpl) FindByInstitution(ctx context.Context, institution string) ([]domain.Lab, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, institution, scenario, platform, instance_number
		FROM labs WHERE institution = ? ORDER BY name`, institution)
	if err != nil {
		return nil, fmt.Errorf("failed to find labs: %w", err)
	}
	defer rows.Close()

	return scanLabs(rows)
}

// FindAll finds all labs
func (r *labRepositoryImpl) FindAll(ctx context.Context) ([]domain.Lab, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, institution, scenario, platform, instance_number
		FROM labs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to find labs: %w", err)
	}
	defer rows.Close()

	return scanLabs(rows)
}

// scanLabs scans a result set into lab values
func scanLabs(rows *sql.Rows) ([]domain.Lab, error) {
	var labs []domain.Lab
	for rows.Next() {
		var lab domain.Lab
		err := rows.Scan(&lab.ID, &lab.Name, &lab.Institution, &lab.Scenario, &lab.Platform, &lab.InstanceNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lab: %w", err)
		}
		labs = append(labs, lab)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating labs: %w", err)
	}

	return labs, nil
}

// DeleteByID deletes a lab by ID
func (r *labRepositoryImpl) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM labs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete lab: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("lab with ID %d: %w", id, ErrNotFound)
	}

	return nil
}

// DeleteByName deletes a lab by name
func (r *labRepositoryImpl) DeleteByName(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM labs WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete lab: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("lab with name '%s': %w", name, ErrNotFound)
	}

	return nil
}

// ExistsByID checks if a lab exists by its ID
func (r *labRepositoryImpl) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM labs WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check lab existence: %w", err)
	}
	return count > 0, nil
}
