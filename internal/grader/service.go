package grader

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/demoday/internal/githubapi"
	"github.com/fyrsmithlabs/demoday/internal/novelty"
)

// NoveltyEvaluator runs the novelty pipeline.
type NoveltyEvaluator interface {
	Evaluate(ctx context.Context, presentationSummary, repoURL string) (*novelty.Report, error)
}

// TechStackEvaluator grades a repository's tech stack.
type TechStackEvaluator interface {
	Evaluate(ctx context.Context, owner, repo string) (*RepoEvaluation, error)
}

// TranscriptEvaluator grades a pitch transcription.
type TranscriptEvaluator interface {
	Evaluate(ctx context.Context, transcription string) (*PitchEvaluation, error)
}

// Result is a fully graded submission.
type Result struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	GitHubURL         string           `json:"github_url"`
	Novelty           *novelty.Report  `json:"novelty"`
	TechStack         *RepoEvaluation  `json:"tech_stack"`
	Pitch             *PitchEvaluation `json:"pitch"`
	NoveltyGrade      float64          `json:"novelty_grade"`
	TechStackGrade    float64          `json:"tech_stack_grade"`
	PresentationGrade float64          `json:"presentation_grade"`
	OverallGrade      float64          `json:"overall_grade"`
	CreatedAt         time.Time        `json:"created_at"`
}

// Service grades submissions end to end: novelty, tech stack and pitch.
type Service struct {
	novelty NoveltyEvaluator
	repos   TechStackEvaluator
	pitch   TranscriptEvaluator
	logger  *zap.Logger
}

// NewService creates a grading service.
func NewService(noveltyEval NoveltyEvaluator, repoEval TechStackEvaluator, pitchEval TranscriptEvaluator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		novelty: noveltyEval,
		repos:   repoEval,
		pitch:   pitchEval,
		logger:  logger.Named("grader"),
	}
}

// Grade runs all three evaluations for a submission and combines them into
// a Result. Any evaluation failure fails the whole grading; no partial
// result is returned.
func (s *Service) Grade(ctx context.Context, name, repoURL, presentationSummary string) (*Result, error) {
	owner, repo, err := githubapi.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	noveltyReport, err := s.novelty.Evaluate(ctx, presentationSummary, repoURL)
	if err != nil {
		return nil, fmt.Errorf("novelty evaluation: %w", err)
	}

	techStack, err := s.repos.Evaluate(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("tech stack evaluation: %w", err)
	}

	pitch, err := s.pitch.Evaluate(ctx, presentationSummary)
	if err != nil {
		return nil, fmt.Errorf("pitch evaluation: %w", err)
	}

	techStackGrade := roundGrade((techStack.ModernnessScore + techStack.ScalabilityScore) / 2)
	overall := roundGrade((noveltyReport.OverallScore + techStackGrade + pitch.OverallScore) / 3)

	result := &Result{
		ID:                uuid.NewString(),
		Name:              name,
		GitHubURL:         repoURL,
		Novelty:           noveltyReport,
		TechStack:         techStack,
		Pitch:             pitch,
		NoveltyGrade:      noveltyReport.OverallScore,
		TechStackGrade:    techStackGrade,
		PresentationGrade: pitch.OverallScore,
		OverallGrade:      overall,
		CreatedAt:         time.Now().UTC(),
	}

	s.logger.Info("submission graded",
		zap.String("id", result.ID),
		zap.String("name", name),
		zap.Float64("novelty", result.NoveltyGrade),
		zap.Float64("tech_stack", result.TechStackGrade),
		zap.Float64("presentation", result.PresentationGrade),
		zap.Float64("overall", result.OverallGrade))

	return result, nil
}

// roundGrade rounds to one decimal place.
func roundGrade(x float64) float64 {
	return math.Round(x*10) / 10
}
