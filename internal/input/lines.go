package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// MaxLineLength is the longest line Lines accepts.
const MaxLineLength = 1 << 20

// Lines calls fn for every line of r with its 1-based line number. Line
// endings, including a trailing '\r', are stripped; nothing else is
// trimmed. Scanning stops at the first error returned by fn.
func Lines(ctx context.Context, r io.Reader, fn func(line int, text string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineLength)

	line := 0
	for sc.Scan() {
		// Check for cancellation every 256 lines
		if line%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line++

		if err := fn(line, strings.TrimSuffix(sc.Text(), "\r")); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("line %d: %w", line+1, err)
	}
	return nil
}
