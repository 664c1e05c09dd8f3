package internal

import (
	"os"
	"strings"
)

// SourceCode stores the content of a source code file split by line, so the
// formatter can render snippets around an issue.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads a file and returns its lines.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}
