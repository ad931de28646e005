package repository

import (
	"context"
	"testing"
	"time"

	"ecochampions/models"
	"ecochampions/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewProjectRepository(testDB.DB)
	ctx := context.Background()
	creator := testutil.InsertTestUser(t, testDB.DB, "organizer")

	t.Run("create and get", func(t *testing.T) {
		project := &models.Project{
			Title:        "Glass week",
			GoalMaterial: "glass",
			GoalWeight:   40,
			DaysLeft:     5,
			CreatedBy:    &creator.ID,
		}
		require.NoError(t, repo.Create(ctx, project))
		assert.Equal(t, models.ProjectStatusActive, project.Status)

		found, err := repo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.IsCreator(creator.ID))
		assert.Nil(t, found.CompletedAt)
	})

	t.Run("project without creator", func(t *testing.T) {
		project := testutil.InsertTestProject(t, testDB.DB, nil, 10)

		found, err := repo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Nil(t, found.CreatedBy)
	})

	t.Run("missing project", func(t *testing.T) {
		found, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("completion happens once", func(t *testing.T) {
		project := testutil.InsertTestProject(t, testDB.DB, &creator.ID, 100)

		completed, err := repo.MarkCompleted(ctx, project.ID)
		require.NoError(t, err)
		assert.False(t, completed, "goal not reached")

		collected, err := repo.AddCollectedWeight(ctx, project.ID, 100)
		require.NoError(t, err)
		assert.Equal(t, 100.0, collected)

		completed, err = repo.MarkCompleted(ctx, project.ID)
		require.NoError(t, err)
		assert.True(t, completed)

		completed, err = repo.MarkCompleted(ctx, project.ID)
		require.NoError(t, err)
		assert.False(t, completed)

		found, err := repo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusCompleted, found.Status)
		assert.NotNil(t, found.CompletedAt)
	})

	t.Run("distinct participants", func(t *testing.T) {
		project := testutil.InsertTestProject(t, testDB.DB, &creator.ID, 100)
		a := testutil.InsertTestUser(t, testDB.DB, "a")
		b := testutil.InsertTestUser(t, testDB.DB, "b")

		for _, userID := range []uuid.UUID{a.ID, b.ID, a.ID} {
			p := &models.ProjectParticipation{UserID: userID, ProjectID: project.ID, ContributedWeight: 1}
			require.NoError(t, repo.AddParticipation(ctx, p))
			time.Sleep(time.Millisecond)
		}

		ids, err := repo.GetParticipantIDs(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a.ID, b.ID}, ids)
	})

	t.Run("list filters", func(t *testing.T) {
		projects, err := repo.List(ctx, models.ProjectFilter{Material: "glass"})
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "Glass week", projects[0].Title)

		completed, err := repo.List(ctx, models.ProjectFilter{Status: models.ProjectStatusCompleted})
		require.NoError(t, err)
		assert.Len(t, completed, 1)

		all, err := repo.List(ctx, models.ProjectFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})
}

func TestRecyclingLogRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRecyclingLogRepository(testDB.DB)
	ctx := context.Background()
	user := testutil.InsertTestUser(t, testDB.DB, "sorter")
	before := time.Now().UTC().Add(-time.Minute)

	for _, material := range []string{"paper", "metal"} {
		entry := &models.RecyclingLog{UserID: user.ID, MaterialType: material, Weight: 0.75}
		require.NoError(t, repo.Create(ctx, entry))
	}

	count, err := repo.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	logs, err := repo.GetByUserSince(ctx, user.ID, before)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = repo.GetByUserSince(ctx, user.ID, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, logs)
}
