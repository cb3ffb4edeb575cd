package novelty

import "fmt"

func readmeSummaryPrompt(readme string) string {
	return fmt.Sprintf(
		"Here is a project github repo README file: %s. Please provide a summary of the project in a couple sentences.",
		readme,
	)
}

func candidateReadmeSummaryPrompt(readme string) string {
	return fmt.Sprintf(
		"Here is a project README file of a github repo: %s. Please provide a summary of the project in a couple sentences.",
		readme,
	)
}

func articleSummaryPrompt(title, snippet, description string) string {
	return fmt.Sprintf(
		"Here is an article about a topic: Title: %s. Snippet: %s. Description: %s. Please provide a summary of the topic in a couple sentences.",
		title, snippet, description,
	)
}

func explainGitHubMatchPrompt(homeSummary, candidateSummary string) string {
	return fmt.Sprintf(
		"Here is a summary of a users github README file for a project they worked on: %s. "+
			"Here is a summary of a github repository project that was found online: %s. "+
			"These summaries are similar. In a few sentences, explain why these projects are similar.",
		homeSummary, candidateSummary,
	)
}

func explainArticleMatchPrompt(articleSummary, presentationSummary string) string {
	return fmt.Sprintf(
		"Here is a summary of a google article about a topic: Title: %s. "+
			"Here is a summary of a presentation of about a project: %s. "+
			"In a few sentences, explain why the Google article is similar to the project.",
		articleSummary, presentationSummary,
	)
}
