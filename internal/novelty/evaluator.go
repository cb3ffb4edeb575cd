// Package novelty scores how novel a submitted project is against prior
// work discovered in two independent pools: GitHub repository search and
// web search. Each pool's best match is found by lexical similarity between
// LLM summaries, then the two pool scores are averaged into the overall
// novelty score.
package novelty

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/demoday/internal/githubapi"
	"github.com/fyrsmithlabs/demoday/internal/textsim"
	"github.com/fyrsmithlabs/demoday/internal/websearch"
)

const (
	// SimilarThreshold is the similarity percentage above which a pool's
	// best match is considered a suspiciously close hit and gets an LLM
	// explanation instead of the templated sentence.
	SimilarThreshold = 60.0

	// SearchPageSize is the number of candidates requested per pool. It
	// also bounds the per-pool fan-out.
	SearchPageSize = 10
)

// GitHubSearcher is the source-hosting collaborator.
type GitHubSearcher interface {
	SearchRepositories(ctx context.Context, query string, limit int) ([]githubapi.Repository, error)
	FetchReadme(ctx context.Context, owner, repo string) (string, error)
}

// WebSearcher is the web-search collaborator.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// Completer is the text-generation collaborator.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// KeywordExtractor derives the repository search query from the
// presentation summary.
type KeywordExtractor interface {
	Extract(ctx context.Context, summary string) (string, error)
}

// Evaluator runs novelty evaluations. It holds no per-request state; one
// Evaluator serves concurrent evaluations.
type Evaluator struct {
	completer Completer
	github    GitHubSearcher
	web       WebSearcher
	keywords  KeywordExtractor
	logger    *zap.Logger
}

// NewEvaluator creates a novelty evaluator.
func NewEvaluator(completer Completer, github GitHubSearcher, web WebSearcher, keywords KeywordExtractor, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		completer: completer,
		github:    github,
		web:       web,
		keywords:  keywords,
		logger:    logger.Named("novelty"),
	}
}

// poolMatch is the best match found within one pool. A zero poolMatch means
// no participating candidate: similarity 0, novelty score 100.
type poolMatch struct {
	name       string
	link       string
	summary    string
	similarity float64
	found      bool
}

// Evaluate produces a complete NoveltyReport for the presentation summary
// and its repository. Failures in the required upstream steps (repo URL,
// home README summary, keyword extraction, explanations) abort the
// evaluation; failures on individual candidates only exclude those
// candidates. No partial report is ever returned.
func (e *Evaluator) Evaluate(ctx context.Context, presentationSummary, repoURL string) (*Report, error) {
	owner, repo, err := githubapi.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	readme, err := e.github.FetchReadme(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetching project README: %w", err)
	}

	homeSummary, err := e.completer.Complete(ctx, readmeSummaryPrompt(readme))
	if err != nil {
		return nil, fmt.Errorf("summarizing project README: %w", err)
	}

	query, err := e.keywords.Extract(ctx, presentationSummary)
	if err != nil {
		return nil, fmt.Errorf("extracting search keywords: %w", err)
	}

	githubMatch := e.evaluateGitHubPool(ctx, homeSummary, query)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	webMatch := e.evaluateWebPool(ctx, presentationSummary)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	githubScore := noveltyScore(githubMatch.similarity)
	googleScore := noveltyScore(webMatch.similarity)

	githubSummary, err := e.githubPoolSummary(ctx, githubMatch, homeSummary, githubScore)
	if err != nil {
		return nil, err
	}
	googleSummary, err := e.webPoolSummary(ctx, webMatch, presentationSummary, googleScore)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GitHubScore:         githubScore,
		GitHubRepo:          githubMatch.name,
		GitHubRepoLink:      githubMatch.link,
		GitHubSummary:       githubSummary,
		GoogleScore:         googleScore,
		GoogleArticle:       webMatch.name,
		GoogleArticleLink:   webMatch.link,
		GoogleSummary:       googleSummary,
		OverallScore:        round1((githubScore + googleScore) / 2),
		PresentationSummary: presentationSummary,
	}

	e.logger.Info("novelty evaluation complete",
		zap.Float64("github_score", report.GitHubScore),
		zap.Float64("google_score", report.GoogleScore),
		zap.Float64("overall_score", report.OverallScore))

	return report, nil
}

// evaluateGitHubPool searches repositories with the keyword query,
// summarizes each candidate's README and retains the candidate whose
// summary is most similar to the home-project summary. Candidates whose
// README is unavailable or whose summarization fails do not participate.
func (e *Evaluator) evaluateGitHubPool(ctx context.Context, homeSummary, query string) poolMatch {
	repos, err := e.github.SearchRepositories(ctx, query, SearchPageSize)
	if err != nil {
		e.logger.Warn("repository search failed, pool is empty", zap.Error(err))
		return poolMatch{}
	}

	type candidateResult struct {
		summary    string
		similarity float64
		ok         bool
	}
	results := make([]candidateResult, len(repos))

	// The per-candidate loop is embarrassingly parallel; fan-out is
	// bounded by the page size so at most SearchPageSize external calls
	// run at once. Selection below runs over the completed set, so
	// results match the sequential order.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(SearchPageSize)
	for i, candidate := range repos {
		i, candidate := i, candidate
		g.Go(func() error {
			owner, repo, err := githubapi.ParseRepoURL(candidate.URL)
			if err != nil {
				e.logger.Debug("skipping candidate with unparseable URL",
					zap.String("url", candidate.URL), zap.Error(err))
				return nil
			}

			readme, err := e.github.FetchReadme(gctx, owner, repo)
			if err != nil {
				e.logger.Debug("skipping candidate without README",
					zap.String("repo", candidate.Name), zap.Error(err))
				return nil
			}

			summary, err := e.completer.Complete(gctx, candidateReadmeSummaryPrompt(readme))
			if err != nil {
				e.logger.Debug("skipping candidate, summarization failed",
					zap.String("repo", candidate.Name), zap.Error(err))
				return nil
			}

			results[i] = candidateResult{
				summary:    summary,
				similarity: textsim.Similarity(homeSummary, summary),
				ok:         true,
			}
			return nil
		})
	}
	_ = g.Wait() // candidate failures are skips, never errors

	var best poolMatch
	for i, r := range results {
		if !r.ok {
			continue
		}
		if r.similarity > best.similarity || !best.found {
			best = poolMatch{
				name:       repos[i].Name,
				link:       repos[i].URL,
				summary:    r.summary,
				similarity: r.similarity,
				found:      true,
			}
		}
	}
	return best
}

// evaluateWebPool searches the web with the presentation summary as the
// query, summarizes each article's title/snippet/description and retains
// the article most similar to the presentation summary.
func (e *Evaluator) evaluateWebPool(ctx context.Context, presentationSummary string) poolMatch {
	articles, err := e.web.Search(ctx, presentationSummary)
	if err != nil {
		e.logger.Warn("web search failed, pool is empty", zap.Error(err))
		return poolMatch{}
	}

	type articleResult struct {
		summary    string
		similarity float64
		ok         bool
	}
	results := make([]articleResult, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(SearchPageSize)
	for i, article := range articles {
		i, article := i, article
		g.Go(func() error {
			summary, err := e.completer.Complete(gctx,
				articleSummaryPrompt(article.Title, article.Snippet, article.Description))
			if err != nil {
				e.logger.Debug("skipping article, summarization failed",
					zap.String("title", article.Title), zap.Error(err))
				return nil
			}

			results[i] = articleResult{
				summary:    summary,
				similarity: textsim.Similarity(presentationSummary, summary),
				ok:         true,
			}
			return nil
		})
	}
	_ = g.Wait()

	var best poolMatch
	for i, r := range results {
		if !r.ok {
			continue
		}
		if r.similarity > best.similarity || !best.found {
			best = poolMatch{
				name:       articles[i].Title,
				link:       articles[i].Link,
				summary:    r.summary,
				similarity: r.similarity,
				found:      true,
			}
		}
	}
	return best
}

// githubPoolSummary produces the natural-language summary for the GitHub
// pool: an LLM explanation when the best match is suspiciously close,
// otherwise the fixed template citing the score.
func (e *Evaluator) githubPoolSummary(ctx context.Context, match poolMatch, homeSummary string, score float64) (string, error) {
	if !match.found || match.similarity*100 <= SimilarThreshold {
		return fmt.Sprintf(
			"This project is not similar to any other projects found on GitHub. This helped you score a %.1f out of 100 for your GitHub novelty score.",
			score,
		), nil
	}

	explanation, err := e.completer.Complete(ctx, explainGitHubMatchPrompt(homeSummary, match.summary))
	if err != nil {
		return "", fmt.Errorf("explaining GitHub match: %w", err)
	}
	return "This project is similar to a project found on GitHub. " + explanation, nil
}

// webPoolSummary is the web-pool counterpart of githubPoolSummary.
func (e *Evaluator) webPoolSummary(ctx context.Context, match poolMatch, presentationSummary string, score float64) (string, error) {
	if !match.found || match.similarity*100 <= SimilarThreshold {
		return fmt.Sprintf(
			"This project is not similar to any other articles found on Google. This helped you score a %.1f out of 100 for your Google novelty score.",
			score,
		), nil
	}

	explanation, err := e.completer.Complete(ctx, explainArticleMatchPrompt(match.summary, presentationSummary))
	if err != nil {
		return "", fmt.Errorf("explaining article match: %w", err)
	}
	return "This project is similar to an article found on Google. " + explanation, nil
}
