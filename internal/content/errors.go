package content

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidContent is matched by every structural content error.
var ErrInvalidContent = errors.New("invalid content")

// ValidationError collects every structural problem found in a content pack.
// Content-quality findings (a blank healer action, say) are not structural
// and are reported by the engine instead.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d problem(s):\n  %s",
		e.Source, len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Is lets errors.Is(err, ErrInvalidContent) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidContent
}

func (e *ValidationError) addf(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
