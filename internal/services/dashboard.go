package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jackc/pgx/v5"

	"leedsbot-backend/internal/models"
)

type attemptHistory interface {
	ListByUser(ctx context.Context, email string) ([]models.QuizAttempt, error)
}

type DashboardService struct {
	users    profileStore
	attempts attemptHistory
}

func NewDashboardService(users profileStore, attempts attemptHistory) *DashboardService {
	return &DashboardService{users: users, attempts: attempts}
}

func (s *DashboardService) Get(ctx context.Context, email string) (*models.DashboardResponse, error) {
	resp := &models.DashboardResponse{
		Email:    email,
		Degree:   models.DegreeBachelors,
		Subjects: []models.SubjectMastery{},
		Focus:    []models.SubjectMastery{},
	}

	user, err := s.users.GetProfile(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	var levels []models.SubjectLevel
	if user != nil {
		resp.StudentID = user.StudentID
		resp.Degree = user.Degree
		if user.DegreeName != nil {
			resp.DegreeName = *user.DegreeName
		}
		if levels, err = s.users.ListLevels(ctx, email); err != nil {
			return nil, fmt.Errorf("failed to load levels: %w", err)
		}
	}

	attempts, err := s.attempts.ListByUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	totals := map[models.Subject]*models.SubjectMastery{}
	var ratioSum float64
	for _, a := range attempts {
		t, ok := totals[a.Subject]
		if !ok {
			t = &models.SubjectMastery{Subject: a.Subject}
			totals[a.Subject] = t
		}
		t.Score += a.Score
		t.Max += a.MaxScore
		if a.MaxScore > 0 {
			ratioSum += float64(a.Score) / float64(a.MaxScore)
		}
	}

	resp.TotalQuizzes = len(attempts)
	if len(attempts) > 0 {
		resp.AverageScore = percent(ratioSum / float64(len(attempts)))
	}

	for _, subject := range models.Subjects {
		m := models.SubjectMastery{
			Subject: subject,
			Level:   models.LevelFor(levels, subject, models.LevelBeginner),
		}
		if t, ok := totals[subject]; ok {
			m.Score, m.Max = t.Score, t.Max
			if t.Max > 0 {
				m.Mastery = percent(float64(t.Score) / float64(t.Max))
			}
		}
		resp.Subjects = append(resp.Subjects, m)
	}

	// Weakest subjects first, once there is anything to rank.
	if len(totals) > 0 {
		resp.Focus = append(resp.Focus, resp.Subjects...)
		sort.SliceStable(resp.Focus, func(i, j int) bool {
			return resp.Focus[i].Mastery < resp.Focus[j].Mastery
		})
	}

	return resp, nil
}

func percent(ratio float64) int {
	return int(math.Floor(ratio*100 + 0.5))
}
