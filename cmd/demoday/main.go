// Package main implements the demoday CLI for manual operations against the
// demodayd HTTP server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the demodayd HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "demoday",
	Short: "CLI for demodayd grading operations",
	Long: `demoday is a command-line interface for the demodayd grading server.
It submits hackathon projects for grading and retrieves graded results.`,
	Version: version,
}

var (
	gradeName    string
	gradeRepoURL string
	gradeSummary string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "demodayd server URL")

	gradeCmd.Flags().StringVar(&gradeName, "name", "", "submission name")
	gradeCmd.Flags().StringVar(&gradeRepoURL, "repo", "", "GitHub repository URL")
	gradeCmd.Flags().StringVar(&gradeSummary, "summary", "", "presentation summary text, or @file to read from a file, or - for stdin")
	gradeCmd.MarkFlagRequired("name")
	gradeCmd.MarkFlagRequired("repo")
	gradeCmd.MarkFlagRequired("summary")

	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(healthCmd)
}

// gradeCmd submits a project for grading
var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Submit a project for grading",
	Long: `Submit a hackathon project for grading and print the graded result.

Examples:
  # Grade with an inline summary
  demoday grade --name "asthma app" --repo https://github.com/me/proj --summary "We built..."

  # Read the summary from a file
  demoday grade --name "asthma app" --repo https://github.com/me/proj --summary @pitch.txt

  # Read the summary from stdin
  cat pitch.txt | demoday grade --name "asthma app" --repo https://github.com/me/proj --summary -`,
	RunE: runGrade,
}

// getCmd fetches one graded submission
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a graded submission by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

// listCmd lists graded submissions
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all graded submissions",
	RunE:  runList,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check demodayd server health",
	RunE:  runHealth,
}

// SubmissionRequest matches internal/server SubmissionRequest
type SubmissionRequest struct {
	Name                string `json:"name"`
	GitHubURL           string `json:"github_url"`
	PresentationSummary string `json:"presentation_summary"`
}

// HealthResponse matches internal/server HealthResponse
type HealthResponse struct {
	Status string `json:"status"`
}

// resolveSummary expands the --summary flag: "@file" reads a file, "-"
// reads stdin, anything else is the literal summary text.
func resolveSummary(value string) (string, error) {
	switch {
	case value == "-":
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	case len(value) > 1 && value[0] == '@':
		content, err := os.ReadFile(value[1:])
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", value[1:], err)
		}
		return string(content), nil
	default:
		return value, nil
	}
}

// runGrade handles the grade command
func runGrade(cmd *cobra.Command, args []string) error {
	summary, err := resolveSummary(gradeSummary)
	if err != nil {
		return err
	}
	if summary == "" {
		return fmt.Errorf("presentation summary is empty")
	}

	reqJSON, err := json.Marshal(SubmissionRequest{
		Name:                gradeName,
		GitHubURL:           gradeRepoURL,
		PresentationSummary: summary,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/submissions", serverURL)
	httpReq, err := http.NewRequest("POST", url, bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// Grading runs several model and search calls; give it time.
	client := &http.Client{
		Timeout: 10 * time.Minute,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	return printJSON(resp.Body)
}

// runGet handles the get command
func runGet(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/api/v1/submissions/%s", serverURL, args[0])
	return fetchJSON(url)
}

// runList handles the list command
func runList(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/api/v1/submissions", serverURL)
	return fetchJSON(url)
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/health", serverURL)

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to %s: %v\n", url, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Server Status: %s\n", healthResp.Status)
	fmt.Printf("Server URL: %s\n", serverURL)

	return nil
}

// fetchJSON GETs url and pretty-prints the JSON response body.
func fetchJSON(url string) error {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	return printJSON(resp.Body)
}

// printJSON pretty-prints a JSON stream to stdout.
func printJSON(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		// Not JSON; print as-is.
		fmt.Println(string(raw))
		return nil
	}

	fmt.Println(buf.String())
	return nil
}
