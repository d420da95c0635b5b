package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushq/timetable-api/internal/dto"
	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
)

type subjectFinder interface {
	FindForTerm(ctx context.Context, universityID string, year, semester int) ([]models.Subject, error)
}

type preferenceFinder interface {
	FindForTerm(ctx context.Context, universityID string, year, semester int, academicYear string) ([]models.FacultyPreference, error)
}

// TimetableGeneratorService builds candidate weekly timetables for a division
// and resolves faculty onto them. All generation is pure and in-memory; the
// only I/O is reading subject and preference snapshots.
type TimetableGeneratorService struct {
	subjects  subjectFinder
	prefs     preferenceFinder
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	store     *proposalStore
}

// GeneratorConfig governs generator behaviour.
type GeneratorConfig struct {
	ProposalTTL time.Duration
}

// NewTimetableGeneratorService wires generator dependencies.
func NewTimetableGeneratorService(
	subjects subjectFinder,
	prefs preferenceFinder,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg GeneratorConfig,
) *TimetableGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	return &TimetableGeneratorService{
		subjects:  subjects,
		prefs:     prefs,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		store:     newProposalStore(cfg.ProposalTTL),
	}
}

// defaultSlotTimes is the standard 7-period teaching day used when the
// request does not override the slot layout.
var defaultSlotTimes = []models.SlotTime{
	{Start: "09:00", End: "09:55"},
	{Start: "10:00", End: "10:55"},
	{Start: "11:00", End: "11:55"},
	{Start: "12:00", End: "12:55"},
	{Start: "14:00", End: "14:55"},
	{Start: "15:00", End: "15:55"},
	{Start: "16:00", End: "16:55"},
}

// Generate loads the term's subjects, classifies them and produces one
// candidate template per distribution strategy. Candidates are kept in a
// TTL'd store until the admin promotes one to a draft timetable.
func (s *TimetableGeneratorService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := requireGenerationInput(req); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}

	slotTimes := req.SlotTimes
	if len(slotTimes) == 0 {
		slotTimes = defaultSlotTimes
	}

	subjects, err := s.subjects.FindForTerm(ctx, req.UniversityID, req.Year, req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	if len(subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrMissingInput, "no subjects found for this year and semester")
	}

	buckets := classifySubjects(subjects)
	grid := models.NewCalendarGrid(slotTimes)

	strategies := []models.DistributionStrategy{
		models.StrategyBalanced,
		models.StrategyMorningHeavy,
		models.StrategyAfternoonHeavy,
	}

	candidates := make([]dto.TimetableCandidate, 0, len(strategies))
	for _, strategy := range strategies {
		start := time.Now()
		template := distribute(strategy, grid, buckets, req)
		candidate := dto.TimetableCandidate{
			ProposalID: uuid.NewString(),
			Strategy:   strategy,
			Template:   template,
		}
		s.store.Save(proposal{candidate: candidate, requestedAt: time.Now().UTC()})
		candidates = append(candidates, candidate)
		s.metrics.ObserveGeneration(string(strategy), time.Since(start))
	}

	s.logger.Info("timetable candidates generated",
		zap.String("division", req.Division),
		zap.Int("year", req.Year),
		zap.Int("semester", req.Semester),
		zap.Int("subjects", len(subjects)),
	)

	return &dto.GenerateTimetableResponse{Candidates: candidates}, nil
}

// AssignFaculty applies the preference snapshot for the candidate's term onto
// a mutated copy of its template. Cells with no eligible faculty are left
// unassigned; that is reported as a count, not an error.
func (s *TimetableGeneratorService) AssignFaculty(ctx context.Context, req dto.AssignFacultyRequest) (*dto.AssignFacultyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assign payload")
	}
	stored, ok := s.store.Get(req.ProposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}

	template := stored.candidate.Template
	prefs, err := s.prefs.FindForTerm(ctx, template.UniversityID, template.Year, template.Semester, req.AcademicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty preferences")
	}

	assigned := assignFaculty(template, prefs)
	stored.candidate.Template = assigned
	s.store.Save(stored)

	return &dto.AssignFacultyResponse{
		ProposalID: req.ProposalID,
		Template:   assigned,
		Unassigned: countUnassigned(assigned),
	}, nil
}

// Proposal returns a stored candidate, used when promoting it to a draft.
func (s *TimetableGeneratorService) Proposal(id string) (dto.TimetableCandidate, bool) {
	stored, ok := s.store.Get(id)
	if !ok {
		return dto.TimetableCandidate{}, false
	}
	return stored.candidate, true
}

// DiscardProposal drops a candidate after it has been promoted.
func (s *TimetableGeneratorService) DiscardProposal(id string) {
	s.store.Delete(id)
}

func requireGenerationInput(req dto.GenerateTimetableRequest) error {
	switch {
	case req.UniversityID == "":
		return appErrors.Clone(appErrors.ErrMissingInput, "universityId is required")
	case req.Year == 0:
		return appErrors.Clone(appErrors.ErrMissingInput, "year is required")
	case req.Semester == 0:
		return appErrors.Clone(appErrors.ErrMissingInput, "semester is required")
	case req.Division == "":
		return appErrors.Clone(appErrors.ErrMissingInput, "division is required")
	case req.ClassroomID == "":
		return appErrors.Clone(appErrors.ErrMissingInput, "classroomId is required")
	}
	return nil
}

// --- Subject classification ---

type classifiedSubjects struct {
	core     []models.Subject
	lab      []models.Subject
	elective []models.Subject
}

// classifySubjects partitions subjects by type. Input order is retained
// within each bucket: placement is index-based, so order is a correctness
// contract, not cosmetics.
func classifySubjects(subjects []models.Subject) classifiedSubjects {
	var out classifiedSubjects
	for _, subject := range subjects {
		switch subject.Type {
		case models.SubjectTypeLab:
			out.lab = append(out.lab, subject)
		case models.SubjectTypeElective:
			out.elective = append(out.elective, subject)
		default:
			out.core = append(out.core, subject)
		}
	}
	return out
}

// --- Template distribution ---

// strategyLayout fixes which slot indices each subject category may occupy.
// Labs always take two adjacent indices on the same day.
type strategyLayout struct {
	coreSlots     []int
	labPair       [2]int
	electiveSlots []int
	electiveDays  []int
}

var strategyLayouts = map[models.DistributionStrategy]strategyLayout{
	models.StrategyBalanced: {
		coreSlots:     []int{0, 1, 2, 3},
		labPair:       [2]int{4, 5},
		electiveSlots: []int{6},
		electiveDays:  []int{2, 3, 4}, // Wed-Fri
	},
	models.StrategyMorningHeavy: {
		coreSlots:     []int{0, 1, 2},
		labPair:       [2]int{3, 4},
		electiveSlots: []int{5, 6},
		electiveDays:  []int{2, 3, 4}, // Wed-Fri
	},
	models.StrategyAfternoonHeavy: {
		coreSlots:     []int{4, 5, 6},
		labPair:       [2]int{0, 1},
		electiveSlots: []int{2, 3},
		electiveDays:  []int{0, 1, 2}, // Mon-Wed
	},
}

// distribute places classified subjects onto a fresh copy of the grid by
// index modulo teaching-day count. When a category has more subjects than
// cells, later subjects overwrite earlier ones in round-robin order
// (last-write-wins); capacity overflow is silent and documented.
func distribute(strategy models.DistributionStrategy, grid models.CalendarGrid, subjects classifiedSubjects, req dto.GenerateTimetableRequest) models.Template {
	layout := strategyLayouts[strategy]
	g := grid.Clone()

	for i, subject := range subjects.core {
		day := i % models.TeachingDays
		slot := layout.coreSlots[(i/models.TeachingDays)%len(layout.coreSlots)]
		g.Days[day][slot] = cellFor(subject)
	}

	for i, subject := range subjects.lab {
		day := i % models.TeachingDays
		g.Days[day][layout.labPair[0]] = cellFor(subject)
		g.Days[day][layout.labPair[1]] = cellFor(subject)
	}

	for i, subject := range subjects.elective {
		day := layout.electiveDays[i%len(layout.electiveDays)]
		slot := layout.electiveSlots[i%len(layout.electiveSlots)]
		g.Days[day][slot] = cellFor(subject)
	}

	return models.Template{
		UniversityID: req.UniversityID,
		Year:         req.Year,
		Semester:     req.Semester,
		Division:     req.Division,
		ClassroomID:  req.ClassroomID,
		Strategy:     strategy,
		Grid:         g,
	}
}

func cellFor(subject models.Subject) models.SlotCell {
	return models.SlotCell{SubjectCode: subject.Code, SubjectType: subject.Type}
}

// --- Faculty assignment ---

type bookingKey struct {
	FacultyID string
	Day       string
	Start     string
}

// assignFaculty greedily picks, for every occupied cell in day/slot order,
// the first preference candidate not already booked at that (day, startTime).
// Given identical inputs the result is byte-for-byte reproducible: traversal
// order is explicit and candidate lists keep insertion order.
func assignFaculty(template models.Template, prefs []models.FacultyPreference) models.Template {
	out := template
	out.Grid = template.Grid.Clone()

	bySubject := make(map[string][]models.FacultyPreference, len(prefs))
	for _, pref := range prefs {
		bySubject[pref.SubjectCode] = append(bySubject[pref.SubjectCode], pref)
	}

	booked := make(map[bookingKey]bool)
	for d := range out.Grid.Days {
		day := models.DayNames[d]
		for slot := range out.Grid.Days[d] {
			cell := &out.Grid.Days[d][slot]
			if cell.SubjectCode == "" {
				continue
			}
			start := out.Grid.SlotTimes[slot].Start
			for _, candidate := range bySubject[cell.SubjectCode] {
				key := bookingKey{FacultyID: candidate.FacultyID, Day: day, Start: start}
				if booked[key] {
					continue
				}
				booked[key] = true
				facultyID := candidate.FacultyID
				cell.FacultyID = &facultyID
				break
			}
		}
	}
	return out
}

func countUnassigned(template models.Template) int {
	count := 0
	for d := range template.Grid.Days {
		for _, cell := range template.Grid.Days[d] {
			if cell.SubjectCode != "" && cell.FacultyID == nil {
				count++
			}
		}
	}
	return count
}

// --- Proposal cache ---

type proposal struct {
	candidate   dto.TimetableCandidate
	requestedAt time.Time
}

type proposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]proposal
}

func newProposalStore(ttl time.Duration) *proposalStore {
	return &proposalStore{
		ttl:   ttl,
		items: make(map[string]proposal),
	}
}

func (s *proposalStore) Save(p proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.candidate.ProposalID] = p
}

func (s *proposalStore) Get(id string) (proposal, bool) {
	s.mu.RLock()
	p, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return proposal{}, false
	}
	if time.Since(p.requestedAt) > s.ttl {
		s.Delete(id)
		return proposal{}, false
	}
	return p, true
}

func (s *proposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
