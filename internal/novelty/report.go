package novelty

import "math"

// Report is the terminal output of a novelty evaluation. It is constructed
// once per evaluation and immutable after construction. Field names map to
// the externally visible JSON keys.
type Report struct {
	GitHubScore         float64 `json:"github_score"`
	GitHubRepo          string  `json:"github_repo"`
	GitHubRepoLink      string  `json:"github_repo_link"`
	GitHubSummary       string  `json:"github_summary"`
	GoogleScore         float64 `json:"google_score"`
	GoogleArticle       string  `json:"google_article"`
	GoogleArticleLink   string  `json:"google_article_link"`
	GoogleSummary       string  `json:"google_summary"`
	OverallScore        float64 `json:"overall_score"`
	PresentationSummary string  `json:"presentation_summary"`
}

// noveltyScore converts a similarity in [0, 1] into a 0-100 novelty score.
// Low similarity to prior work yields a high score; the inversion is the
// core design intent.
func noveltyScore(similarity float64) float64 {
	return round1((1 - similarity) * 100)
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
