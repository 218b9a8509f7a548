package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leedsbot-backend/internal/models"
)

func TestDashboard_Empty(t *testing.T) {
	svc := NewDashboardService(&stubUsers{}, &stubAttempts{})

	resp, err := svc.Get(context.Background(), testEmail)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TotalQuizzes)
	assert.Equal(t, 0, resp.AverageScore)
	assert.Empty(t, resp.Focus)
	require.Len(t, resp.Subjects, 3)
	for i, subject := range models.Subjects {
		assert.Equal(t, subject, resp.Subjects[i].Subject)
		assert.Equal(t, models.LevelBeginner, resp.Subjects[i].Level)
	}
}

func TestDashboard_Mastery(t *testing.T) {
	users := &stubUsers{
		profile: &models.UserProfile{StudentID: "c12345678", Degree: models.DegreeMasters, DegreeName: strPtr("Data Science")},
		levels:  []models.SubjectLevel{{Subject: models.SubjectDatabaseSystems, Level: models.LevelAdvanced}},
	}
	attempts := &stubAttempts{all: []models.QuizAttempt{
		{Subject: models.SubjectMaths, Score: 5, MaxScore: 6},
		{Subject: models.SubjectMaths, Score: 3, MaxScore: 6},
		{Subject: models.SubjectDatabaseSystems, Score: 1, MaxScore: 6},
	}}
	svc := NewDashboardService(users, attempts)

	resp, err := svc.Get(context.Background(), testEmail)
	require.NoError(t, err)

	assert.Equal(t, "c12345678", resp.StudentID)
	assert.Equal(t, "Data Science", resp.DegreeName)
	assert.Equal(t, 3, resp.TotalQuizzes)
	// (5/6 + 3/6 + 1/6) / 3 = 0.5
	assert.Equal(t, 50, resp.AverageScore)

	maths := resp.Subjects[0]
	assert.Equal(t, 8, maths.Score)
	assert.Equal(t, 12, maths.Max)
	assert.Equal(t, 67, maths.Mastery)

	db := resp.Subjects[2]
	assert.Equal(t, models.LevelAdvanced, db.Level)
	assert.Equal(t, 17, db.Mastery)

	require.Len(t, resp.Focus, 3)
	assert.Equal(t, models.SubjectMidge, resp.Focus[0].Subject)
	assert.Equal(t, models.SubjectDatabaseSystems, resp.Focus[1].Subject)
	assert.Equal(t, models.SubjectMaths, resp.Focus[2].Subject)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 50, percent(0.5))
	assert.Equal(t, 33, percent(1.0/3))
	assert.Equal(t, 67, percent(2.0/3))
	assert.Equal(t, 100, percent(1))
}
