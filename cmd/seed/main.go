package main

import (
	"context"
	"log"
	"time"

	"github.com/campushq/timetable-api/internal/models"
	"github.com/campushq/timetable-api/internal/repository"
	"github.com/campushq/timetable-api/pkg/config"
	"github.com/campushq/timetable-api/pkg/database"
)

const (
	demoUniversityID = "11111111-1111-1111-1111-111111111111"
	demoAcademicYear = "2026-27"
)

// Seeds a demo term: subjects for year 2 semester 3, a small faculty roster
// and their declared preferences. Wipes existing data first, so never point
// this at a real environment.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	subjectRepo := repository.NewSubjectRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	prefRepo := repository.NewFacultyPreferenceRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)

	if err := timetableRepo.DeleteAll(ctx); err != nil {
		log.Fatalf("failed to clear timetables: %v", err)
	}
	if err := prefRepo.DeleteAll(ctx); err != nil {
		log.Fatalf("failed to clear preferences: %v", err)
	}
	if err := facultyRepo.DeleteAll(ctx); err != nil {
		log.Fatalf("failed to clear faculties: %v", err)
	}
	if err := subjectRepo.DeleteAll(ctx); err != nil {
		log.Fatalf("failed to clear subjects: %v", err)
	}

	subjects := []models.Subject{
		{Code: "CS201", Name: "Data Structures", Type: models.SubjectTypeCore},
		{Code: "CS202", Name: "Discrete Mathematics", Type: models.SubjectTypeCore},
		{Code: "CS203", Name: "Computer Organization", Type: models.SubjectTypeCore},
		{Code: "CS204", Name: "Object Oriented Programming", Type: models.SubjectTypeCore},
		{Code: "CS205", Name: "Probability and Statistics", Type: models.SubjectTypeCore},
		{Code: "CS211L", Name: "Data Structures Lab", Type: models.SubjectTypeLab},
		{Code: "CS212L", Name: "OOP Lab", Type: models.SubjectTypeLab},
		{Code: "HS201", Name: "Technical Communication", Type: models.SubjectTypeElective},
		{Code: "HS202", Name: "Economics for Engineers", Type: models.SubjectTypeElective},
	}
	for i := range subjects {
		subjects[i].Year = 2
		subjects[i].Semester = 3
		subjects[i].UniversityID = demoUniversityID
		if err := subjectRepo.Create(ctx, &subjects[i]); err != nil {
			log.Fatalf("failed to seed subject %s: %v", subjects[i].Code, err)
		}
	}

	faculties := []models.Faculty{
		{FullName: "Asha Deshmukh", Email: "asha.deshmukh@campushq.test"},
		{FullName: "Rohit Banerjee", Email: "rohit.banerjee@campushq.test"},
		{FullName: "Meera Pillai", Email: "meera.pillai@campushq.test"},
		{FullName: "Kunal Shah", Email: "kunal.shah@campushq.test"},
	}
	for i := range faculties {
		faculties[i].UniversityID = demoUniversityID
		if err := facultyRepo.Create(ctx, &faculties[i]); err != nil {
			log.Fatalf("failed to seed faculty %s: %v", faculties[i].Email, err)
		}
	}

	preferences := []struct {
		faculty int
		codes   []string
	}{
		{0, []string{"CS201", "CS211L", "CS205"}},
		{1, []string{"CS202", "CS203"}},
		{2, []string{"CS204", "CS212L", "HS201"}},
		{3, []string{"CS201", "CS203", "HS202"}},
	}
	for _, p := range preferences {
		for _, code := range p.codes {
			pref := models.FacultyPreference{
				FacultyID:    faculties[p.faculty].ID,
				SubjectCode:  code,
				Year:         2,
				Semester:     3,
				AcademicYear: demoAcademicYear,
				UniversityID: demoUniversityID,
			}
			if err := prefRepo.Create(ctx, &pref); err != nil {
				log.Fatalf("failed to seed preference %s: %v", code, err)
			}
		}
	}

	grid := models.NewCalendarGrid([]models.SlotTime{
		{Start: "09:00", End: "09:55"},
		{Start: "10:00", End: "10:55"},
		{Start: "11:00", End: "11:55"},
		{Start: "12:00", End: "12:55"},
		{Start: "14:00", End: "14:55"},
		{Start: "15:00", End: "15:55"},
		{Start: "16:00", End: "16:55"},
	})
	grid.Days[0][0] = models.SlotCell{SubjectCode: "CS201", SubjectType: models.SubjectTypeCore}
	grid.Days[0][4] = models.SlotCell{SubjectCode: "CS211L", SubjectType: models.SubjectTypeLab}
	grid.Days[0][5] = models.SlotCell{SubjectCode: "CS211L", SubjectType: models.SubjectTypeLab}
	grid.Days[1][0] = models.SlotCell{SubjectCode: "CS202", SubjectType: models.SubjectTypeCore}

	demo := models.Timetable{
		ID: "22222222-2222-2222-2222-222222222222",
		Template: models.Template{
			UniversityID: demoUniversityID,
			Year:         2,
			Semester:     3,
			Division:     "A",
			ClassroomID:  "room-204",
			Strategy:     models.StrategyBalanced,
			Grid:         grid,
		},
		Status:  models.TimetableStatusDraft,
		Version: 1,
	}
	demo = models.AppendHistory(demo, models.HistoryEntry{Action: "Created", ActorID: "seed"})
	if err := timetableRepo.Create(ctx, &demo); err != nil {
		log.Fatalf("failed to seed demo timetable: %v", err)
	}

	log.Printf("seeded %d subjects, %d faculties, 1 draft timetable", len(subjects), len(faculties))
}
