package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle state of a community project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusCompleted ProjectStatus = "Completed"
)

// Project is a community collection drive with a weight goal
type Project struct {
	ID              uuid.UUID     `db:"id"`
	Title           string        `db:"title"`
	Description     string        `db:"description"`
	GoalMaterial    string        `db:"goal_material"`
	GoalWeight      float64       `db:"goal_weight"`
	CollectedWeight float64       `db:"collected_weight"`
	Status          ProjectStatus `db:"status"`
	DaysLeft        int           `db:"days_left"`
	CreatedBy       *uuid.UUID    `db:"created_by"`
	CreatedAt       time.Time     `db:"created_at"`
	CompletedAt     *time.Time    `db:"completed_at"`
}

// IsActive returns true if the project still accepts progress towards its goal
func (p *Project) IsActive() bool {
	return p.Status == ProjectStatusActive
}

// GoalReached returns true once the collected weight meets or exceeds the goal
func (p *Project) GoalReached() bool {
	return p.CollectedWeight >= p.GoalWeight
}

// IsCreator returns true if the given user created the project
func (p *Project) IsCreator(userID uuid.UUID) bool {
	return p.CreatedBy != nil && *p.CreatedBy == userID
}

// ProjectParticipation records one contribution of a user to a project
type ProjectParticipation struct {
	ID                uuid.UUID `db:"id"`
	UserID            uuid.UUID `db:"user_id"`
	ProjectID         uuid.UUID `db:"project_id"`
	ContributedWeight float64   `db:"contributed_weight"`
	JoinedAt          time.Time `db:"joined_at"`
}

// ProjectFilter narrows project listings; zero values match everything
type ProjectFilter struct {
	Status   ProjectStatus
	Material string
}
