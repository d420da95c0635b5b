package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushq/timetable-api/internal/dto"
	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
)

const (
	historyActionCreated   = "Created"
	historyActionPublished = "Published"
)

type timetableRepository interface {
	GetByID(ctx context.Context, id string) (*models.Timetable, error)
	Create(ctx context.Context, timetable *models.Timetable) error
	Update(ctx context.Context, timetable *models.Timetable) error
	List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, int, error)
}

type proposalSource interface {
	Proposal(id string) (dto.TimetableCandidate, bool)
	DiscardProposal(id string)
}

type cacheInvalidator interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{})
	Invalidate(ctx context.Context, pattern string)
}

// TimetableLifecycleService owns the draft → published state machine and the
// append-only history log. Publishing is gated on a clean conflict report.
type TimetableLifecycleService struct {
	repo      timetableRepository
	proposals proposalSource
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	now       func() time.Time
}

// NewTimetableLifecycleService wires lifecycle dependencies.
func NewTimetableLifecycleService(
	repo timetableRepository,
	proposals proposalSource,
	cache cacheInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
) *TimetableLifecycleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableLifecycleService{
		repo:      repo,
		proposals: proposals,
		cache:     cache,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateDraft promotes a generated candidate into a persisted draft timetable
// and records the creation in its history.
func (s *TimetableLifecycleService) CreateDraft(ctx context.Context, req dto.CreateTimetableRequest, actorID string) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create payload")
	}
	if actorID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "actor identity missing")
	}

	candidate, ok := s.proposals.Proposal(req.ProposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}

	timetable := models.Timetable{
		ID:       uuid.NewString(),
		Template: candidate.Template,
		Status:   models.TimetableStatusDraft,
		Version:  1,
	}
	timetable = models.AppendHistory(timetable, models.HistoryEntry{
		Action:    historyActionCreated,
		ActorID:   actorID,
		Timestamp: s.now(),
		Details:   fmt.Sprintf("strategy %s", candidate.Strategy),
	})

	if err := s.repo.Create(ctx, &timetable); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist draft timetable")
	}
	s.proposals.DiscardProposal(req.ProposalID)
	s.invalidateListings(ctx)

	s.logger.Info("draft timetable created",
		zap.String("timetable_id", timetable.ID),
		zap.String("division", timetable.Template.Division),
		zap.String("actor_id", actorID),
	)
	return &timetable, nil
}

// Publish validates the timetable and, on a clean report, transitions it to
// published. Conflicts are a normal outcome returned for the admin to act on;
// the timetable is left untouched in that case. Republishing is a no-op:
// PublishedAt, version and history all stay as the first publish left them.
func (s *TimetableLifecycleService) Publish(ctx context.Context, id, actorID string) (*models.PublishResult, error) {
	if actorID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "actor identity missing")
	}

	timetable, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	if timetable.Status == models.TimetableStatusPublished {
		return &models.PublishResult{Success: true, Timetable: timetable}, nil
	}

	conflicts := CheckConflicts(*timetable)
	s.metrics.ObserveConflicts(len(conflicts))
	if len(conflicts) > 0 {
		return &models.PublishResult{Success: false, Conflicts: conflicts}, nil
	}

	updated := *timetable
	updated.Status = models.TimetableStatusPublished
	publishedAt := s.now()
	updated.PublishedAt = &publishedAt
	updated = models.AppendHistory(updated, models.HistoryEntry{
		Action:    historyActionPublished,
		ActorID:   actorID,
		Timestamp: s.now(),
	})

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "timetable was modified concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist published timetable")
	}
	s.invalidateListings(ctx)

	s.logger.Info("timetable published",
		zap.String("timetable_id", updated.ID),
		zap.String("actor_id", actorID),
	)
	return &models.PublishResult{Success: true, Timetable: &updated}, nil
}

// Get returns one timetable by id, serving published reads from cache when
// available.
func (s *TimetableLifecycleService) Get(ctx context.Context, id string) (*models.Timetable, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timetable id is required")
	}

	cacheKey := timetableCacheKey(id)
	if s.cache != nil {
		var cached models.Timetable
		if s.cache.Get(ctx, cacheKey, &cached) {
			return &cached, nil
		}
	}

	timetable, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	if s.cache != nil && timetable.Status == models.TimetableStatusPublished {
		s.cache.Set(ctx, cacheKey, timetable)
	}
	return timetable, nil
}

// List returns timetables matching the filter plus pagination metadata.
func (s *TimetableLifecycleService) List(ctx context.Context, query dto.TimetableQuery) ([]models.Timetable, *models.Pagination, error) {
	filter := models.TimetableFilter{
		UniversityID: query.UniversityID,
		Year:         query.Year,
		Semester:     query.Semester,
		Division:     query.Division,
		Status:       models.TimetableStatus(query.Status),
		Page:         query.Page,
		PageSize:     query.PageSize,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return items, pagination, nil
}

// Conflicts runs the validator on demand without touching lifecycle state.
func (s *TimetableLifecycleService) Conflicts(ctx context.Context, id string) ([]models.Conflict, error) {
	timetable, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return CheckConflicts(*timetable), nil
}

func (s *TimetableLifecycleService) invalidateListings(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, "timetables:*")
	}
}

func timetableCacheKey(id string) string {
	return "timetables:" + id
}
