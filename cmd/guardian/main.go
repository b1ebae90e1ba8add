// Guardian is an AI-assisted security reviewer for code snippets.
//
// It asks a language model for a vulnerability report, then for a minimal
// patch that fixes only the flagged issues, and shows both with a diff.
//
// Usage:
//
//	guardian serve                  # web UI on :$PORT
//	guardian scan app.js            # print the vulnerability report
//	guardian fix -i app.js          # review the fix in the terminal
//	cat app.js | guardian fix -     # read the snippet from stdin
//
// Configuration comes from the environment or a .env file; GOOGLE_API_KEY
// is required.
package main

import (
	"os"

	"github.com/acheong08/guardian-angel/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
