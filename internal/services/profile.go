package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"leedsbot-backend/internal/models"
	"leedsbot-backend/internal/textutil"
)

const maxGoalsLen = 1000

var studentIDPattern = regexp.MustCompile(`(?i)^c\d{8}$`)

type profileStore interface {
	GetProfile(ctx context.Context, email string) (*models.UserProfile, error)
	ListLevels(ctx context.Context, email string) ([]models.SubjectLevel, error)
	SaveProfile(ctx context.Context, p *models.UserProfile, levels map[models.Subject]models.Level) error
}

type ProfileService struct {
	users profileStore
}

func NewProfileService(users profileStore) *ProfileService {
	return &ProfileService{users: users}
}

// Get returns the onboarding profile. Missing records yield defaults and
// completed=false.
func (s *ProfileService) Get(ctx context.Context, email string) (*models.ProfileResponse, error) {
	view := models.ProfileView{
		Degree: models.DegreeBachelors,
		Levels: map[models.Subject]models.Level{},
	}

	user, err := s.users.GetProfile(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var stored []models.SubjectLevel
	if user != nil {
		view.StudentID = user.StudentID
		if user.Degree != "" {
			view.Degree = user.Degree
		}
		if user.DegreeName != nil {
			view.DegreeName = *user.DegreeName
		}
		if user.Goals != nil {
			view.Goals = *user.Goals
		}

		stored, err = s.users.ListLevels(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to load levels: %w", err)
		}
	}

	setLevels := 0
	for _, subject := range models.Subjects {
		level := models.LevelFor(stored, subject, "")
		if level.Valid() {
			setLevels++
		} else {
			level = models.LevelBeginner
		}
		view.Levels[subject] = level
	}

	completed := user != nil &&
		user.StudentID != "" &&
		user.Degree.Valid() &&
		user.DegreeName != nil && *user.DegreeName != "" &&
		setLevels == len(models.Subjects)

	return &models.ProfileResponse{Completed: completed, Profile: view}, nil
}

// Save validates and stores the onboarding form.
func (s *ProfileService) Save(ctx context.Context, email string, req models.SaveProfileRequest) error {
	fields := map[string]string{}

	studentID := strings.TrimSpace(req.StudentID)
	if !studentIDPattern.MatchString(studentID) {
		fields["studentId"] = "Student ID must be c########"
	}
	if !req.Degree.Valid() {
		fields["degree"] = "Select your degree type"
	}
	degreeName := strings.TrimSpace(req.DegreeName)
	if textutil.RuneLen(degreeName) < 2 {
		fields["degreeName"] = "Select your programme"
	}
	for _, subject := range models.Subjects {
		if !req.Levels[subject].Valid() {
			fields["levels."+string(subject)] = "Select a level"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	profile := &models.UserProfile{
		Email:      email,
		StudentID:  studentID,
		Degree:     req.Degree,
		DegreeName: &degreeName,
	}
	if req.Goals != nil {
		goals := textutil.Truncate(strings.TrimSpace(*req.Goals), maxGoalsLen)
		profile.Goals = &goals
	}

	levels := make(map[models.Subject]models.Level, len(models.Subjects))
	for _, subject := range models.Subjects {
		levels[subject] = req.Levels[subject]
	}

	if err := s.users.SaveProfile(ctx, profile, levels); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
