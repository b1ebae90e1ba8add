package refactor

import "strings"

const guardrails = `You are a Refactoring Agent, not a Feature Agent.

Guardrails & Safety Instructions:
1. Do No Harm: You must strictly preserve the input/output contract of the function.
2. No Side Effects: Do not alter business logic or introduce new features. Only fix the security flaws.
3. Sanitization: You may change how data is handled (e.g., parameterization, environment variables) to secure it.
`

const outputFormat = `Task:
Rewrite the code to fix all identified vulnerabilities using SAP BTP best practices.

Output Format:
You must output strictly VALID JSON. Do not include markdown formatting.
{
    "fixed_code": "The complete, compilable fixed code block as a string. Escape newlines properly."
}`

// BuildPrompt embeds the original code and the prior analysis into the
// secure-refactoring template.
func BuildPrompt(code, analysis string) string {
	var b strings.Builder

	b.WriteString(guardrails)
	b.WriteString("\nOriginal Code:\n```\n")
	b.WriteString(code)
	b.WriteString("\n```\n\nAnalysis:\n")
	b.WriteString(analysis)
	b.WriteString("\n\n")
	b.WriteString(outputFormat)
	b.WriteString("\n")

	return b.String()
}
