package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecochampions/database"
	"ecochampions/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const projectColumns = `id, title, description, goal_material, goal_weight, collected_weight, status, days_left, created_by, created_at, completed_at`

// ProjectRepository implements the ProjectRepository interface
type ProjectRepository struct {
	q queryable
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{q: db.Pool}
}

// newProjectRepositoryWithTx creates a new project repository with a transaction
func newProjectRepositoryWithTx(tx queryable) *ProjectRepository {
	return &ProjectRepository{q: tx}
}

// Create inserts an Active project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (title, description, goal_material, goal_weight, days_left, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, collected_weight, status, created_at
	`

	err := r.q.QueryRow(ctx, query,
		project.Title,
		project.Description,
		project.GoalMaterial,
		project.GoalWeight,
		project.DaysLeft,
		project.CreatedBy,
	).Scan(&project.ID, &project.CollectedWeight, &project.Status, &project.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project %q: %w", project.Title, mapPgError(err))
	}

	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	project, err := scanProject(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return project, nil
}

// GetByIDForUpdate retrieves a project and holds its row lock until the transaction ends
func (r *ProjectRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 FOR UPDATE`
	project, err := scanProject(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock project %s: %w", id, mapPgError(err))
	}
	return project, nil
}

// List returns projects matching the filter, newest first
func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error) {
	var conditions []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Material != "" {
		args = append(args, filter.Material)
		conditions = append(conditions, fmt.Sprintf("goal_material = $%d", len(args)))
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// AddCollectedWeight adds to the accumulator and returns the new total
func (r *ProjectRepository) AddCollectedWeight(ctx context.Context, id uuid.UUID, weight float64) (float64, error) {
	query := `
		UPDATE projects
		SET collected_weight = collected_weight + $2
		WHERE id = $1
		RETURNING collected_weight
	`

	var collected float64
	err := r.q.QueryRow(ctx, query, id, weight).Scan(&collected)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("project %s not found", id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add weight to project %s: %w", id, mapPgError(err))
	}

	return collected, nil
}

// MarkCompleted moves an Active project whose goal is met to Completed. The
// status guard makes the transition happen for exactly one caller.
func (r *ProjectRepository) MarkCompleted(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE projects
		SET status = 'Completed', completed_at = NOW()
		WHERE id = $1 AND status = 'Active' AND collected_weight >= goal_weight
	`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to complete project %s: %w", id, mapPgError(err))
	}

	return tag.RowsAffected() == 1, nil
}

// AddParticipation records a contribution
func (r *ProjectRepository) AddParticipation(ctx context.Context, participation *models.ProjectParticipation) error {
	query := `
		INSERT INTO project_participations (user_id, project_id, contributed_weight)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`

	err := r.q.QueryRow(ctx, query,
		participation.UserID,
		participation.ProjectID,
		participation.ContributedWeight,
	).Scan(&participation.ID, &participation.JoinedAt)
	if err != nil {
		return fmt.Errorf("failed to add participation of user %s in project %s: %w",
			participation.UserID, participation.ProjectID, mapPgError(err))
	}

	return nil
}

// GetParticipantIDs returns each user that joined the project once, in order of first join
func (r *ProjectRepository) GetParticipantIDs(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT user_id
		FROM project_participations
		WHERE project_id = $1
		GROUP BY user_id
		ORDER BY MIN(joined_at), user_id
	`

	rows, err := r.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants of project %s: %w", projectID, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return ids, nil
}

// scanProject returns nil, nil when the row does not exist
func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.GoalMaterial,
		&p.GoalWeight,
		&p.CollectedWeight,
		&p.Status,
		&p.DaysLeft,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
