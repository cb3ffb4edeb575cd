// Package grader evaluates the non-novelty aspects of a submission: the
// repository's tech stack and the pitch itself. Both delegate judgment to
// the text-generation collaborator and decode its JSON verdict into typed
// records at the boundary.
package grader

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/demoday/internal/llm"
)

// maxTreeFiles caps the repository file listing sent to the model, keeping
// prompts inside token limits on large repositories.
const maxTreeFiles = 100

// TreeLister lists file paths from a repository's default branch.
type TreeLister interface {
	ListTree(ctx context.Context, owner, repo string, limit int) ([]string, error)
}

// RepoEvaluation is the model's verdict on a repository's tech stack.
type RepoEvaluation struct {
	Technologies     []string `json:"technologies"`
	ModernnessScore  float64  `json:"modernness_score"`
	ScalabilityScore float64  `json:"scalability_score"`
	Summary          string   `json:"summary"`
}

// RepoEvaluator grades a repository's tech stack from its file listing.
type RepoEvaluator struct {
	completer llm.Completer
	trees     TreeLister
	logger    *zap.Logger
}

// NewRepoEvaluator creates a repository evaluator.
func NewRepoEvaluator(completer llm.Completer, trees TreeLister, logger *zap.Logger) *RepoEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepoEvaluator{
		completer: completer,
		trees:     trees,
		logger:    logger.Named("repoeval"),
	}
}

// Evaluate lists the repository tree and asks the model to assess the tech
// stack. The listing is capped at maxTreeFiles entries.
func (e *RepoEvaluator) Evaluate(ctx context.Context, owner, repo string) (*RepoEvaluation, error) {
	files, err := e.trees.ListTree(ctx, owner, repo, maxTreeFiles)
	if err != nil {
		return nil, fmt.Errorf("listing repository files: %w", err)
	}

	prompt := fmt.Sprintf(
		"Given the following list of files from a GitHub repository:\n\n%s\n\n"+
			"Please analyze the tech stack based on these files and provide the following:\n"+
			"1. A list of identified technologies and frameworks\n"+
			"2. A score from 0-100 for how modern the tech stack is, considering current industry trends\n"+
			"3. A score from 0-100 for the potential scalability of the tech stack\n"+
			"4. A brief summary (max 100 words) explaining the scores and highlighting key aspects of the tech stack\n\n"+
			"Provide your response in JSON format with the following keys:\n"+
			"\"technologies\", \"modernness_score\", \"scalability_score\", \"summary\"",
		strings.Join(files, ", "),
	)

	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("evaluating tech stack: %w", err)
	}

	var eval RepoEvaluation
	if err := decodeModelJSON(response, &eval); err != nil {
		return nil, fmt.Errorf("decoding tech stack evaluation: %w", err)
	}

	e.logger.Debug("tech stack evaluated",
		zap.String("repo", owner+"/"+repo),
		zap.Int("files", len(files)),
		zap.Float64("modernness", eval.ModernnessScore),
		zap.Float64("scalability", eval.ScalabilityScore))

	return &eval, nil
}
