package tailoring

import (
	_ "embed"
	"strings"
)

//go:embed prompts/tailor.txt
var tailorPrompt string

// BuildPrompt embeds the job description and base resume verbatim in the tailoring
// instructions. The same inputs always produce the same prompt.
func BuildPrompt(jobDescription, baseResume string) string {
	r := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", jobDescription,
		"{{BASE_RESUME}}", baseResume,
	)
	return strings.TrimSpace(r.Replace(tailorPrompt))
}
