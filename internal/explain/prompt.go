package explain

import (
	"fmt"
	"strings"
)

// buildPrompt renders the structured prompt for the generative explainer.
// The model only produces the explanation text; the score and severity in
// the prompt are informational and are never overridden by its output.
func buildPrompt(input ExplainInput) string {
	var b strings.Builder

	b.WriteString("You are assisting a production line supervisor. ")
	b.WriteString("A part in production was scored for downstream inspection failure risk.\n\n")

	fmt.Fprintf(&b, "Part ID: %s\n", input.Features.PartID)
	fmt.Fprintf(&b, "Part type: %s\n", input.Features.PartType)
	fmt.Fprintf(&b, "Rework events: %d\n", input.Features.ReworkCount)
	fmt.Fprintf(&b, "Total time in production: %.1f seconds\n", input.Features.TotalSeconds)
	fmt.Fprintf(&b, "Current station: %s\n", input.Features.CurrentStation)
	fmt.Fprintf(&b, "Type average total time: %.1f seconds (stddev %.1f, sample size %d)\n",
		input.Baseline.MeanSeconds, input.Baseline.StdDevSeconds, input.Baseline.SampleSize)
	fmt.Fprintf(&b, "Type average rework count: %.2f\n", input.Baseline.MeanRework)
	fmt.Fprintf(&b, "Computed risk score: %.2f (severity %s)\n", input.Score, input.Severity)

	b.WriteString("\nContributing signals:\n")
	for _, sig := range input.Signals {
		fmt.Fprintf(&b, "- %s: value %.2f, weight %.2f (%s)\n", sig.Name, sig.Value, sig.Weight, sig.Detail)
	}

	b.WriteString("\nWrite one brief explanation (at most 150 characters) of why this part ")
	b.WriteString("carries this risk level, in plain language for the supervisor. ")
	b.WriteString("Reply with the explanation text only.")

	return b.String()
}
