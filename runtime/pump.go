package runtime

import (
	"io"

	"github.com/crucible-build/shrinkwrap/linesplit"
)

// pumpStream drains one child output pipe through a dedicated line
// splitter until EOF, then flushes the splitter so a trailing
// unterminated fragment still reaches the sink. Returns the number of
// raw bytes drained.
//
// Each stream gets its own splitter instance: sharing one between
// stdout and stderr would interleave their carry-over buffers.
func pumpStream(r io.Reader, splitter *linesplit.Splitter) (int64, error) {
	n, err := io.Copy(splitter, r)
	if closeErr := splitter.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return n, err
}
