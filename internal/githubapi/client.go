// Package githubapi provides the source-hosting collaborators: repository
// search and README retrieval against the GitHub REST API.
package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// defaultRequestTimeout bounds each API call when no timeout is configured.
const defaultRequestTimeout = 30 * time.Second

// ErrReadmeNotFound is returned when a repository has no README. In the
// candidate loop this means the candidate does not participate; for the
// submitting project it is fatal.
var ErrReadmeNotFound = errors.New("repository README not found")

// Repository is a search candidate: name and canonical URL.
type Repository struct {
	Name string
	URL  string
}

// Client wraps the GitHub API for demoday's needs.
type Client struct {
	gh     *github.Client
	retry  *RetryConfig
	logger *zap.Logger
}

// NewClient creates a GitHub client. An empty token yields an
// unauthenticated client, which works with tighter rate limits. Every API
// call is bounded by timeout; zero uses defaultRequestTimeout.
func NewClient(ctx context.Context, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = timeout
	}

	return &Client{
		gh:     github.NewClient(httpClient),
		retry:  DefaultRetryConfig(),
		logger: logger.Named("githubapi"),
	}
}

// FetchReadme fetches the decoded README of owner/repo. A 404 maps to
// ErrReadmeNotFound; other failures are transient provider errors.
func (c *Client) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	var readme *github.RepositoryContent

	_, err := retryOperation(ctx, c.retry, c.logger, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		readme, resp, err = c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
		return resp, err
	})
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: %s/%s", ErrReadmeNotFound, owner, repo)
		}
		return "", fmt.Errorf("fetching README for %s/%s: %w", owner, repo, err)
	}

	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding README for %s/%s: %w", owner, repo, err)
	}
	return content, nil
}

// SearchRepositories searches GitHub repositories for the query and returns
// up to limit candidates in API order. The search fails soft: any provider
// failure is logged and an empty list is returned, so the caller can report
// "no comparable project found".
func (c *Client) SearchRepositories(ctx context.Context, query string, limit int) ([]Repository, error) {
	opts := &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: limit},
	}

	var result *github.RepositoriesSearchResult
	_, err := retryOperation(ctx, c.retry, c.logger, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		result, resp, err = c.gh.Search.Repositories(ctx, query, opts)
		return resp, err
	})
	if err != nil {
		c.logger.Warn("repository search failed, returning no candidates",
			zap.String("query", query),
			zap.Error(err))
		return nil, nil
	}

	repos := make([]Repository, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		repos = append(repos, Repository{
			Name: r.GetFullName(),
			URL:  r.GetHTMLURL(),
		})
		if len(repos) == limit {
			break
		}
	}
	return repos, nil
}

// ListTree returns up to limit file paths from the repository's default
// branch tree. The walk is a single recursive trees API call with an
// explicit cap, never an unbounded traversal.
func (c *Client) ListTree(ctx context.Context, owner, repo string, limit int) ([]string, error) {
	var repository *github.Repository
	_, err := retryOperation(ctx, c.retry, c.logger, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		repository, resp, err = c.gh.Repositories.Get(ctx, owner, repo)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching repository %s/%s: %w", owner, repo, err)
	}

	branch := repository.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}

	var tree *github.Tree
	_, err = retryOperation(ctx, c.retry, c.logger, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		tree, resp, err = c.gh.Git.GetTree(ctx, owner, repo, branch, true)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching tree for %s/%s: %w", owner, repo, err)
	}

	paths := make([]string, 0, limit)
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		paths = append(paths, entry.GetPath())
		if len(paths) == limit {
			break
		}
	}
	return paths, nil
}
