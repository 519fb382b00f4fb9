package thinking

import (
	"strings"
	"text/template"
)

// contextWindow is how many earlier thoughts accompany an analysis request.
const contextWindow = 3

var analysisTmpl = template.Must(template.New("analysis").Parse(`
You are an expert in critical thinking and problem-solving. Analyze this thought in the {{.Stage}} stage:

Thought: {{.Content}}
{{if .Context}}
Previous thoughts in this session:
{{.Context}}
{{end}}
Please provide:
1. Quality assessment of this thought for the {{.Stage}} stage
2. Suggestions for improvement or deeper exploration
3. Questions this thought raises for the next stage
4. Potential blind spots or biases to consider

Keep your analysis concise but insightful (max 200 words).
`))

var insightTmpl = template.Must(template.New("insight").Parse(`
Analyze this complete thinking session and provide insights:

{{.Thoughts}}

Please provide:
1. Overall quality of the thinking process
2. Strengths and weaknesses in the reasoning
3. Suggestions for improvement
4. Key insights or conclusions

Keep it concise (max 300 words).
`))

var guidanceTmpl = template.Must(template.New("guidance").Parse(`
Based on this thinking session so far:

{{.Thoughts}}

The latest thought was in the {{.LatestStage}} stage.

What should be the next step in this sequential thinking process? Consider:
1. What stage should come next?
2. What specific questions or areas should be explored?
3. Are there any gaps in the current reasoning?

Provide a specific, actionable suggestion for the next thought.
`))

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// analysisPrompt asks for a critique of one thought. history holds the
// contents of earlier thoughts, oldest first; only the last three are used.
func analysisPrompt(content, stage string, history []string) (string, error) {
	if len(history) > contextWindow {
		history = history[len(history)-contextWindow:]
	}
	return render(analysisTmpl, map[string]string{
		"Content": content,
		"Stage":   stage,
		"Context": strings.Join(history, "\n"),
	})
}

func insightPrompt(allThoughts string) (string, error) {
	return render(insightTmpl, map[string]string{"Thoughts": allThoughts})
}

func guidancePrompt(allThoughts, latestStage string) (string, error) {
	return render(guidanceTmpl, map[string]string{
		"Thoughts":    allThoughts,
		"LatestStage": latestStage,
	})
}
