package analysis

import (
	"fmt"
	"strings"
)

const scanInstructions = `You are an SAP BTP Security Expert and Code Auditor.
Your task is to analyze the following code snippet (which may be Python, CAP/Node.js, or Java) for security vulnerabilities.

Focus on SAP BTP and General Security Best Practices:
1. SAP Specific:
   - Hardcoded credentials in xs-security.json or mta.yaml.
   - Hardcoded service keys or destination credentials.
   - Improper usage of SAP Cloud SDK.
   - Missing role checks (XSUAA) in CAP services.
2. General OWASP:
   - SQL Injection (CDS injection in CAP).
   - XSS.
   - Insecure Deserialization.
   - Path Traversal.
`

const scanOutputFormat = `Output Format:
Provide a clear, human-readable security analysis report with exactly this structure:

**SECURITY ANALYSIS REPORT**

**Risk Score:** [0-100 score]
**Status:** [Secure / At Risk]

**Summary:**
[Brief executive summary of the security status]

**Detected Vulnerabilities:**
[If there are no vulnerabilities, write "✅ No vulnerabilities detected!"]
[Otherwise list each vulnerability as follows:]

🔴 **[Vulnerability Type]** (High Severity) - Line [X]
Description: [Detailed explanation of the vulnerability and why it matters]

🟠 **[Vulnerability Type]** (Medium Severity) - Line [X]
Description: [Detailed explanation]

🔵 **[Vulnerability Type]** (Low Severity) - Line [X]
Description: [Detailed explanation]

Risk Score Calculation:
- Start at 100.
- High severity = -20 points
- Medium severity = -10 points
- Low severity = -5 points
- Minimum score is 0.

Make your analysis thorough, clear, and actionable for developers.`

// BuildScanPrompt embeds code verbatim into the vulnerability scan template.
func BuildScanPrompt(code string) string {
	var b strings.Builder

	b.WriteString(scanInstructions)
	b.WriteString("\nCode Snippet:\n```\n")
	b.WriteString(code)
	b.WriteString("\n```\n\n")
	fmt.Fprintf(&b, "%s\n", scanOutputFormat)

	return b.String()
}
