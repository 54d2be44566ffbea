package devopsctl

import (
	"io"
	"strings"

	"aictl/internal/common/fsutil"
)

// emit prints the analysis and, when path is set, writes the exact same
// bytes to the file.
func emit(out io.Writer, path, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(out, text); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	return fsutil.WriteFile(path, []byte(text))
}
