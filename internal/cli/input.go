package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var errNoCode = errors.New("no code to review")

// readInput returns the snippet named by args: a file path, or stdin when
// the argument is missing or "-". path is empty for stdin.
func readInput(cmd *cobra.Command, args []string) (code, path string, err error) {
	var data []byte
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
	} else {
		path = args[0]
		data, err = os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", path, err)
		}
	}

	code = string(data)
	if strings.TrimSpace(code) == "" {
		return "", path, errNoCode
	}
	return code, path, nil
}

// writeFix overwrites path with the fixed code, keeping its permissions
func writeFix(path, fixed string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(fixed), info.Mode().Perm())
}
