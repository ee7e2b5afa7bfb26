package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

// MappingRuleInput carries the caller-supplied fields for a new rule.
type MappingRuleInput struct {
	QuestionID        string `json:"question_id" binding:"required"`
	QuestionText      string `json:"question_text"`
	AnswerValue       string `json:"answer_value" binding:"required"`
	RecommendedCourse string `json:"recommended_course"`
	RecommendedTrack  string `json:"recommended_track"`
	Priority          int    `json:"priority"`
	CreatedBy         string `json:"created_by"`
}

// MappingRuleChanges holds the fields an update may override; nil means
// keep the existing value.
type MappingRuleChanges struct {
	QuestionText      *string `json:"question_text"`
	RecommendedCourse *string `json:"recommended_course"`
	RecommendedTrack  *string `json:"recommended_track"`
	Priority          *int    `json:"priority"`
}

type MappingRuleService interface {
	Create(ctx context.Context, input MappingRuleInput) (*types.MappingRule, error)
	Update(ctx context.Context, id uuid.UUID, changes MappingRuleChanges, actor string) (*types.MappingRule, error)
	Get(ctx context.Context, id uuid.UUID) (*types.MappingRule, error)
	List(ctx context.Context, filter repos.MappingRuleFilter) ([]*types.MappingRule, error)
	VersionHistory(ctx context.Context, questionID, answerValue string) ([]*types.MappingRule, error)
}

type mappingRuleService struct {
	db    *gorm.DB
	log   *logger.Logger
	rules repos.MappingRuleRepo
	audit repos.AuditLogRepo
}

func NewMappingRuleService(db *gorm.DB, baseLog *logger.Logger, rules repos.MappingRuleRepo, audit repos.AuditLogRepo) MappingRuleService {
	return &mappingRuleService{
		db:    db,
		log:   baseLog.With("service", "MappingRuleService"),
		rules: rules,
		audit: audit,
	}
}

func (s *mappingRuleService) Create(ctx context.Context, input MappingRuleInput) (*types.MappingRule, error) {
	if input.QuestionID == "" || input.AnswerValue == "" {
		return nil, fmt.Errorf("%w: question_id and answer_value required", ErrBadRequest)
	}

	priority := input.Priority
	if priority == 0 {
		priority = 5
	}

	now := time.Now().UTC()
	rule := &types.MappingRule{
		ID:                uuid.New(),
		Version:           1,
		QuestionID:        input.QuestionID,
		QuestionText:      input.QuestionText,
		AnswerValue:       input.AnswerValue,
		RecommendedCourse: input.RecommendedCourse,
		RecommendedTrack:  input.RecommendedTrack,
		Priority:          priority,
		IsActive:          true,
		CreatedAt:         now,
		CreatedBy:         input.CreatedBy,
	}

	body, _ := json.Marshal(rule)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.rules.Create(ctx, tx, rule); err != nil {
			return err
		}
		_, err := s.audit.Create(ctx, tx, &types.AuditLog{
			ID:         uuid.New(),
			EntityType: types.EntityMappingRule,
			EntityID:   rule.ID,
			Action:     types.AuditActionCreate,
			NewValue:   body,
			Actor:      input.CreatedBy,
			Timestamp:  now,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create mapping rule: %w", err)
	}

	s.log.Info("Mapping rule created", "rule_id", rule.ID, "question_id", rule.QuestionID, "answer_value", rule.AnswerValue)
	return rule, nil
}

// Update never mutates the existing row: it deactivates it and inserts a
// new row at version+1 with the merged fields.
func (s *mappingRuleService) Update(ctx context.Context, id uuid.UUID, changes MappingRuleChanges, actor string) (*types.MappingRule, error) {
	if actor == "" {
		actor = anonymousActor
	}

	existing, err := s.rules.GetByID(ctx, nil, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: mapping rule %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	next := &types.MappingRule{
		ID:                uuid.New(),
		Version:           existing.Version + 1,
		QuestionID:        existing.QuestionID,
		QuestionText:      existing.QuestionText,
		AnswerValue:       existing.AnswerValue,
		RecommendedCourse: existing.RecommendedCourse,
		RecommendedTrack:  existing.RecommendedTrack,
		Priority:          existing.Priority,
		IsActive:          true,
		CreatedAt:         now,
		CreatedBy:         actor,
	}
	if changes.QuestionText != nil {
		next.QuestionText = *changes.QuestionText
	}
	if changes.RecommendedCourse != nil {
		next.RecommendedCourse = *changes.RecommendedCourse
	}
	if changes.RecommendedTrack != nil {
		next.RecommendedTrack = *changes.RecommendedTrack
	}
	if changes.Priority != nil {
		next.Priority = *changes.Priority
	}

	previousBody, _ := json.Marshal(existing)
	nextBody, _ := json.Marshal(next)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.rules.Deactivate(ctx, tx, existing.ID); err != nil {
			return err
		}
		if _, err := s.rules.Create(ctx, tx, next); err != nil {
			return err
		}
		_, err := s.audit.Create(ctx, tx, &types.AuditLog{
			ID:            uuid.New(),
			EntityType:    types.EntityMappingRule,
			EntityID:      next.ID,
			Action:        types.AuditActionUpdate,
			PreviousValue: previousBody,
			NewValue:      nextBody,
			Actor:         actor,
			Timestamp:     now,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update mapping rule: %w", err)
	}

	s.log.Info("Mapping rule updated", "rule_id", existing.ID, "new_rule_id", next.ID, "version", next.Version, "actor", actor)
	return next, nil
}

func (s *mappingRuleService) Get(ctx context.Context, id uuid.UUID) (*types.MappingRule, error) {
	rule, err := s.rules.GetByID(ctx, nil, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: mapping rule %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *mappingRuleService) List(ctx context.Context, filter repos.MappingRuleFilter) ([]*types.MappingRule, error) {
	return s.rules.List(ctx, nil, filter)
}

func (s *mappingRuleService) VersionHistory(ctx context.Context, questionID, answerValue string) ([]*types.MappingRule, error) {
	return s.rules.VersionHistory(ctx, nil, questionID, answerValue)
}
