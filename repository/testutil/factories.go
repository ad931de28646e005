package testutil

import (
	"context"
	"fmt"
	"testing"

	"ecochampions/database"
	"ecochampions/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// InsertTestUser inserts a user with a zero balance and a unique email
func InsertTestUser(t *testing.T, db *database.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		Name:      name,
		Email:     fmt.Sprintf("%s-%s@example.org", name, uuid.NewString()[:8]),
		Community: "Test Community",
		Role:      models.TierEcoLearner,
	}
	err := db.QueryRow(context.Background(), `
		INSERT INTO users (name, email, community, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, user.Name, user.Email, user.Community, user.Role).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	require.NoError(t, err)

	return user
}

// InsertTestProject inserts an Active project with the given goal
func InsertTestProject(t *testing.T, db *database.DB, creatorID *uuid.UUID, goalWeight float64) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:        "Test drive",
		GoalMaterial: "plastic",
		GoalWeight:   goalWeight,
		Status:       models.ProjectStatusActive,
		DaysLeft:     7,
		CreatedBy:    creatorID,
	}
	err := db.QueryRow(context.Background(), `
		INSERT INTO projects (title, goal_material, goal_weight, days_left, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, project.Title, project.GoalMaterial, project.GoalWeight, project.DaysLeft, project.CreatedBy).Scan(&project.ID, &project.CreatedAt)
	require.NoError(t, err)

	return project
}
