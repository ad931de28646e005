package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"ecochampions/config"
	"ecochampions/events"
	"ecochampions/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type projectService struct {
	uowFactory UnitOfWorkFactory
	engine     RewardEngine
	publisher  EventPublisher
	rewards    config.Rewards
}

// NewProjectService creates a new project service. Publisher receives events
// raised outside any unit of work and may be nil.
func NewProjectService(uowFactory UnitOfWorkFactory, engine RewardEngine, publisher EventPublisher, rewards config.Rewards) ProjectService {
	return &projectService{
		uowFactory: uowFactory,
		engine:     engine,
		publisher:  publisher,
		rewards:    rewards,
	}
}

// CreateProject opens an Active project and pays the creator reward in the same transaction
func (s *projectService) CreateProject(ctx context.Context, creatorID uuid.UUID, input NewProject) (*models.Project, error) {
	title := strings.TrimSpace(input.Title)
	material := strings.ToLower(strings.TrimSpace(input.GoalMaterial))
	switch {
	case creatorID == uuid.Nil:
		return nil, fmt.Errorf("creator id is required: %w", ErrInvalidInput)
	case title == "":
		return nil, fmt.Errorf("project title is required: %w", ErrInvalidInput)
	case material == "":
		return nil, fmt.Errorf("goal material is required: %w", ErrInvalidInput)
	case !(input.GoalWeight > 0) || math.IsInf(input.GoalWeight, 0):
		return nil, fmt.Errorf("goal weight must be positive: %w", ErrInvalidInput)
	case input.DaysLeft < 0:
		return nil, fmt.Errorf("days left cannot be negative: %w", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	creator, err := uow.UserRepository().GetByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator == nil {
		return nil, fmt.Errorf("creator %s: %w", creatorID, ErrNotFound)
	}

	project := &models.Project{
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		GoalMaterial: material,
		GoalWeight:   input.GoalWeight,
		Status:       models.ProjectStatusActive,
		DaysLeft:     input.DaysLeft,
		CreatedBy:    &creatorID,
	}
	if err := uow.ProjectRepository().Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if _, err := AwardCoins(ctx, uow, creatorID, s.rewards.CreateProject, models.ReasonCreateProject); err != nil {
		return nil, fmt.Errorf("failed to award creator: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"project_id":  project.ID,
		"creator_id":  creatorID,
		"material":    material,
		"goal_weight": input.GoalWeight,
	}).Info("Project created")

	return project, nil
}

// ListProjects returns projects matching the filter, newest first
func (s *projectService) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error) {
	filter.Material = strings.ToLower(strings.TrimSpace(filter.Material))
	if filter.Status != "" && filter.Status != models.ProjectStatusActive && filter.Status != models.ProjectStatusCompleted {
		return nil, fmt.Errorf("unknown project status %q: %w", filter.Status, ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	projects, err := uow.ProjectRepository().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// JoinProject records the participation, the weight and the participant's
// reward in one transaction. The creator reward and, for the participation
// that completes the project, the completion payouts run afterwards as
// independent awards. Their failures are reported through a
// *PartialFailureError returned next to a non-nil result.
func (s *projectService) JoinProject(ctx context.Context, userID, projectID uuid.UUID, contributedWeight float64) (*JoinProjectResult, error) {
	if userID == uuid.Nil || projectID == uuid.Nil {
		return nil, fmt.Errorf("user and project ids are required: %w", ErrInvalidInput)
	}
	if contributedWeight < 0 || math.IsNaN(contributedWeight) || math.IsInf(contributedWeight, 0) {
		return nil, fmt.Errorf("contributed weight must be a non-negative number: %w", ErrInvalidInput)
	}

	result, project, participants, err := s.recordParticipation(ctx, userID, projectID, contributedWeight)
	if err != nil {
		return nil, err
	}

	var awards []AwardOutcome
	if project.CreatedBy != nil && !project.IsCreator(userID) {
		awards = append(awards, AwardOutcome{
			UserID: *project.CreatedBy,
			Amount: s.rewards.ParticipantJoined,
			Reason: models.ReasonParticipantJoined,
		})
	}

	for _, id := range participants {
		awards = append(awards, AwardOutcome{
			UserID: id,
			Amount: s.rewards.CompleteProject,
			Reason: models.ReasonCompleteProject,
		})
	}

	result.Outcomes = awardEach(ctx, s.engine, s.publisher, awards)

	if result.Completed && s.publisher != nil {
		s.publisher.Publish(events.ProjectCompletedEvent{
			ProjectID:       projectID,
			Title:           project.Title,
			GoalWeight:      project.GoalWeight,
			CollectedWeight: result.CollectedWeight,
			Participants:    participants,
		})
	}

	log.WithFields(log.Fields{
		"project_id":       projectID,
		"user_id":          userID,
		"weight":           contributedWeight,
		"collected_weight": result.CollectedWeight,
		"completed":        result.Completed,
	}).Info("User joined project")

	return result, partialFailure(result.Outcomes)
}

// recordParticipation is the primary unit of work of a join. Participants are
// returned only when this call completed the project.
func (s *projectService) recordParticipation(ctx context.Context, userID, projectID uuid.UUID, weight float64) (*JoinProjectResult, *models.Project, []uuid.UUID, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Participations to the same project serialize on this lock
	project, err := uow.ProjectRepository().GetByIDForUpdate(ctx, projectID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, nil, nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	participation := &models.ProjectParticipation{
		UserID:            userID,
		ProjectID:         projectID,
		ContributedWeight: weight,
	}
	if err := uow.ProjectRepository().AddParticipation(ctx, participation); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to add participation: %w", err)
	}

	collected, err := uow.ProjectRepository().AddCollectedWeight(ctx, projectID, weight)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to add collected weight: %w", err)
	}

	award, err := AwardCoins(ctx, uow, userID, s.rewards.JoinProject, models.ReasonJoinProject)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to award participant: %w", err)
	}

	// The lock makes this check exact; MarkCompleted stays the authority.
	project.CollectedWeight = collected
	completed := false
	if project.IsActive() && project.GoalReached() {
		completed, err = uow.ProjectRepository().MarkCompleted(ctx, projectID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to complete project: %w", err)
		}
	}

	var participants []uuid.UUID
	if completed {
		participants, err = uow.ProjectRepository().GetParticipantIDs(ctx, projectID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to get participants: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	status := project.Status
	if completed {
		status = models.ProjectStatusCompleted
	}

	return &JoinProjectResult{
		ProjectID:       projectID,
		Status:          status,
		CollectedWeight: collected,
		GoalWeight:      project.GoalWeight,
		Participant:     award,
		Completed:       completed,
	}, project, participants, nil
}
