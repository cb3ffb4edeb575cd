package grader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/demoday/internal/llm"
)

// CriterionScore is one scored pitch criterion with its explanation.
type CriterionScore struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// PitchEvaluation is the model's verdict on a pitch transcription.
type PitchEvaluation struct {
	ClarityOfMessage              CriterionScore `json:"clarity_of_message"`
	ValueProposition              CriterionScore `json:"value_proposition"`
	StructureAndFlow              CriterionScore `json:"structure_and_flow"`
	EngagementAndPersuasiveness   CriterionScore `json:"engagement_and_persuasiveness"`
	RelevanceToTechIndustry       CriterionScore `json:"relevance_to_tech_industry"`
	ScalabilityAndGrowthPotential CriterionScore `json:"scalability_and_growth_potential"`
	OverallScore                  float64        `json:"overall_score"`
	Summary                       string         `json:"summary"`
}

const pitchPrompt = `Evaluate the following startup pitch transcription based on these criteria:

1. Clarity of Message
   - Is the business idea clearly articulated?
   - Are the problem statement and solution easy to understand?

2. Value Proposition
   - Does the speech emphasize what makes the solution unique?
   - Is the value to customers or users clearly explained?

3. Structure and Flow
   - Is the speech logically organized with a clear beginning, middle, and end?
   - Are the transitions between points smooth?

4. Engagement and Persuasiveness
   - Does the language capture attention and maintain interest?
   - Is the content delivered in an engaging tone, making a strong case for the solution?

5. Relevance to Tech Industry
   - Does the pitch address a problem or opportunity that aligns with current tech trends?
   - Does it mention how the solution leverages technology or meets tech industry needs?

6. Scalability and Growth Potential
   - Does the pitch highlight the potential for scaling the solution?
   - Are there references to market size or growth opportunities?

Provide a score from 0 to 10 for each criterion and a brief explanation, plus an overall score from 0 to 100. Format your response as a JSON object with the following structure:

{
    "clarity_of_message": {"score": float, "explanation": string},
    "value_proposition": {"score": float, "explanation": string},
    "structure_and_flow": {"score": float, "explanation": string},
    "engagement_and_persuasiveness": {"score": float, "explanation": string},
    "relevance_to_tech_industry": {"score": float, "explanation": string},
    "scalability_and_growth_potential": {"score": float, "explanation": string},
    "overall_score": float,
    "summary": string
}

Transcription:
`

// PitchEvaluator grades pitch transcriptions.
type PitchEvaluator struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewPitchEvaluator creates a pitch evaluator.
func NewPitchEvaluator(completer llm.Completer, logger *zap.Logger) *PitchEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PitchEvaluator{
		completer: completer,
		logger:    logger.Named("pitch"),
	}
}

// Evaluate grades the transcription against the six pitch criteria.
func (e *PitchEvaluator) Evaluate(ctx context.Context, transcription string) (*PitchEvaluation, error) {
	response, err := e.completer.Complete(ctx, pitchPrompt+transcription)
	if err != nil {
		return nil, fmt.Errorf("evaluating pitch: %w", err)
	}

	var eval PitchEvaluation
	if err := decodeModelJSON(response, &eval); err != nil {
		return nil, fmt.Errorf("decoding pitch evaluation: %w", err)
	}

	e.logger.Debug("pitch evaluated", zap.Float64("overall", eval.OverallScore))
	return &eval, nil
}
