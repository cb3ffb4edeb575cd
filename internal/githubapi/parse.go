package githubapi

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidRepoURL indicates a malformed or non-GitHub repository URL.
// It is a validation failure: surfaced immediately, never retried.
var ErrInvalidRepoURL = errors.New("invalid GitHub repository URL")

// ParseRepoURL extracts the owner and repository name from a GitHub
// repository URL such as https://github.com/owner/repo.
func ParseRepoURL(rawURL string) (owner, repo string, err error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidRepoURL, err)
	}

	host := strings.TrimPrefix(parsed.Host, "www.")
	if host != "github.com" {
		return "", "", fmt.Errorf("%w: host %q is not github.com", ErrInvalidRepoURL, parsed.Host)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: path %q does not contain owner/repo", ErrInvalidRepoURL, parsed.Path)
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
