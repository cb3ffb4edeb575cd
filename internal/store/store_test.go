package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/demoday/internal/grader"
	"github.com/fyrsmithlabs/demoday/internal/novelty"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(name string, overall float64) *grader.Result {
	return &grader.Result{
		ID:        uuid.NewString(),
		Name:      name,
		GitHubURL: "https://github.com/me/" + name,
		Novelty: &novelty.Report{
			GitHubScore:  91.2,
			GoogleScore:  88.0,
			OverallScore: 89.6,
		},
		TechStack: &grader.RepoEvaluation{
			Technologies:     []string{"Go"},
			ModernnessScore:  80,
			ScalabilityScore: 70,
		},
		Pitch:             &grader.PitchEvaluation{OverallScore: 72},
		NoveltyGrade:      89.6,
		TechStackGrade:    75.0,
		PresentationGrade: 72.0,
		OverallGrade:      overall,
		CreatedAt:         time.Now().UTC(),
	}
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleResult("proj", 78.9)
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Get(ctx, want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.GitHubURL, got.GitHubURL)
	assert.Equal(t, want.OverallGrade, got.OverallGrade)
	require.NotNil(t, got.Novelty)
	assert.Equal(t, want.Novelty.GitHubScore, got.Novelty.GitHubScore)
	require.NotNil(t, got.TechStack)
	assert.Equal(t, []string{"Go"}, got.TechStack.Technologies)
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	result := sampleResult("proj", 50)
	require.NoError(t, s.Save(ctx, result))
	require.Error(t, s.Save(ctx, result))
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := sampleResult("older", 40)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := sampleResult("newer", 60)

	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	results, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "newer", results[0].Name)
	assert.Equal(t, "older", results[1].Name)
}

func TestListOrdersSubSecondTimestamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A whole-second timestamp and a later sub-second one within the same
	// second; text ordering would put the whole-second row first.
	base := time.Now().UTC().Truncate(time.Second)
	older := sampleResult("older", 40)
	older.CreatedAt = base
	newer := sampleResult("newer", 60)
	newer.CreatedAt = base.Add(500 * time.Millisecond)

	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	results, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "newer", results[0].Name)
	assert.Equal(t, "older", results[1].Name)
}

func TestListEmpty(t *testing.T) {
	s := newTestStore(t)

	results, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "demoday.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), sampleResult("proj", 10)))
}
