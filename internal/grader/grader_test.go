package grader

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/demoday/internal/novelty"
)

type completerFunc func(ctx context.Context, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type stubTrees struct {
	files []string
	err   error
}

func (s *stubTrees) ListTree(ctx context.Context, owner, repo string, limit int) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.files) > limit {
		return s.files[:limit], nil
	}
	return s.files, nil
}

const repoEvalJSON = `{
	"technologies": ["Go", "SQLite", "Docker"],
	"modernness_score": 82.5,
	"scalability_score": 74.0,
	"summary": "A modern Go service with room to scale."
}`

func TestRepoEvaluatorEvaluate(t *testing.T) {
	trees := &stubTrees{files: []string{"go.mod", "main.go", "Dockerfile", "internal/server/server.go"}}
	completer := completerFunc(func(ctx context.Context, prompt string) (string, error) {
		assert.Contains(t, prompt, "go.mod, main.go, Dockerfile")
		return repoEvalJSON, nil
	})

	eval, err := NewRepoEvaluator(completer, trees, nil).Evaluate(context.Background(), "owner", "repo")
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "SQLite", "Docker"}, eval.Technologies)
	assert.Equal(t, 82.5, eval.ModernnessScore)
	assert.Equal(t, 74.0, eval.ScalabilityScore)
	assert.NotEmpty(t, eval.Summary)
}

func TestRepoEvaluatorFencedResponse(t *testing.T) {
	trees := &stubTrees{files: []string{"go.mod"}}
	completer := completerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "```json\n" + repoEvalJSON + "\n```", nil
	})

	eval, err := NewRepoEvaluator(completer, trees, nil).Evaluate(context.Background(), "owner", "repo")
	require.NoError(t, err)
	assert.Equal(t, 82.5, eval.ModernnessScore)
}

func TestRepoEvaluatorMalformedResponse(t *testing.T) {
	trees := &stubTrees{files: []string{"go.mod"}}
	completer := completerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "I cannot analyze this repository.", nil
	})

	_, err := NewRepoEvaluator(completer, trees, nil).Evaluate(context.Background(), "owner", "repo")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestRepoEvaluatorTreeError(t *testing.T) {
	treeErr := errors.New("tree unavailable")
	trees := &stubTrees{err: treeErr}

	_, err := NewRepoEvaluator(nil, trees, nil).Evaluate(context.Background(), "owner", "repo")
	require.Error(t, err)
	assert.ErrorIs(t, err, treeErr)
}

const pitchEvalJSON = `{
	"clarity_of_message": {"score": 8.0, "explanation": "clear problem and solution"},
	"value_proposition": {"score": 7.5, "explanation": "distinct value"},
	"structure_and_flow": {"score": 6.0, "explanation": "rushed ending"},
	"engagement_and_persuasiveness": {"score": 7.0, "explanation": "confident delivery"},
	"relevance_to_tech_industry": {"score": 9.0, "explanation": "timely topic"},
	"scalability_and_growth_potential": {"score": 8.0, "explanation": "large market"},
	"overall_score": 76.0,
	"summary": "A solid pitch with a rushed close."
}`

func TestPitchEvaluatorEvaluate(t *testing.T) {
	completer := completerFunc(func(ctx context.Context, prompt string) (string, error) {
		assert.True(t, strings.HasSuffix(prompt, "our pitch transcription text"))
		return pitchEvalJSON, nil
	})

	eval, err := NewPitchEvaluator(completer, nil).Evaluate(context.Background(), "our pitch transcription text")
	require.NoError(t, err)

	assert.Equal(t, 8.0, eval.ClarityOfMessage.Score)
	assert.Equal(t, 76.0, eval.OverallScore)
	assert.Equal(t, "A solid pitch with a rushed close.", eval.Summary)
}

func TestPitchEvaluatorMalformedResponse(t *testing.T) {
	completer := completerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "{not json", nil
	})

	_, err := NewPitchEvaluator(completer, nil).Evaluate(context.Background(), "transcript")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

type stubNovelty struct {
	report *novelty.Report
	err    error
}

func (s *stubNovelty) Evaluate(ctx context.Context, presentationSummary, repoURL string) (*novelty.Report, error) {
	return s.report, s.err
}

type stubTechStack struct {
	eval *RepoEvaluation
	err  error
}

func (s *stubTechStack) Evaluate(ctx context.Context, owner, repo string) (*RepoEvaluation, error) {
	return s.eval, s.err
}

type stubPitch struct {
	eval *PitchEvaluation
	err  error
}

func (s *stubPitch) Evaluate(ctx context.Context, transcription string) (*PitchEvaluation, error) {
	return s.eval, s.err
}

func TestServiceGrade(t *testing.T) {
	svc := NewService(
		&stubNovelty{report: &novelty.Report{OverallScore: 80.0}},
		&stubTechStack{eval: &RepoEvaluation{ModernnessScore: 90.0, ScalabilityScore: 70.0}},
		&stubPitch{eval: &PitchEvaluation{OverallScore: 60.0}},
		nil,
	)

	result, err := svc.Grade(context.Background(), "asthma app", "https://github.com/me/proj", "summary")
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "asthma app", result.Name)
	assert.Equal(t, 80.0, result.NoveltyGrade)
	assert.Equal(t, 80.0, result.TechStackGrade)
	assert.Equal(t, 60.0, result.PresentationGrade)
	// (80 + 80 + 60) / 3 = 73.333 -> 73.3
	assert.Equal(t, 73.3, result.OverallGrade)
	assert.False(t, result.CreatedAt.IsZero())
}

func TestServiceGradeInvalidURL(t *testing.T) {
	svc := NewService(&stubNovelty{}, &stubTechStack{}, &stubPitch{}, nil)

	_, err := svc.Grade(context.Background(), "x", "not-a-github-url", "summary")
	require.Error(t, err)
}

func TestServiceGradeNoPartialResultOnFailure(t *testing.T) {
	noveltyErr := errors.New("keyword generation exhausted")
	svc := NewService(
		&stubNovelty{err: noveltyErr},
		&stubTechStack{eval: &RepoEvaluation{}},
		&stubPitch{eval: &PitchEvaluation{}},
		nil,
	)

	result, err := svc.Grade(context.Background(), "x", "https://github.com/me/proj", "summary")
	require.Error(t, err)
	assert.ErrorIs(t, err, noveltyErr)
	assert.Nil(t, result)
}
