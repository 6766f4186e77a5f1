package service

import (
	"context"
	"fmt"

	"course_insights/internal/model"
	"course_insights/internal/repository"

	"go.uber.org/zap"
)

// ScheduleService manages the set of section references saved by each user
type ScheduleService interface {
	AddSection(ctx context.Context, username, sectionRef string) error
	RemoveSection(ctx context.Context, username, sectionRef string) error
	GetSchedule(ctx context.Context, username string) ([]string, error)
}

type scheduleService struct {
	userRepo     repository.UserRepository
	scheduleRepo repository.ScheduleRepository
	log          *zap.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(userRepo repository.UserRepository, scheduleRepo repository.ScheduleRepository, log *zap.Logger) ScheduleService {
	return &scheduleService{userRepo: userRepo, scheduleRepo: scheduleRepo, log: log}
}

// AddSection adds the reference if absent. Adding a present reference is a
// no-op. The reference is not checked against the catalog.
func (s *scheduleService) AddSection(ctx context.Context, username, sectionRef string) error {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return err
	}

	added, err := s.scheduleRepo.Add(ctx, user.ID, sectionRef)
	if err != nil {
		return fmt.Errorf("failed to add section to schedule: %w", err)
	}
	s.log.Debug("schedule add", zap.String("username", username), zap.String("section", sectionRef), zap.Bool("changed", added))
	return nil
}

// RemoveSection drops the reference; removing a non-member succeeds
func (s *scheduleService) RemoveSection(ctx context.Context, username, sectionRef string) error {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return err
	}

	removed, err := s.scheduleRepo.Remove(ctx, user.ID, sectionRef)
	if err != nil {
		return fmt.Errorf("failed to remove section from schedule: %w", err)
	}
	s.log.Debug("schedule remove", zap.String("username", username), zap.String("section", sectionRef), zap.Bool("changed", removed))
	return nil
}

// GetSchedule returns the saved references in the order they were added
func (s *scheduleService) GetSchedule(ctx context.Context, username string) ([]string, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	refs, err := s.scheduleRepo.List(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return refs, nil
}

func (s *scheduleService) findUser(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
