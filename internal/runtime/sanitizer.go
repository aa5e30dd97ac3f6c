package runtime

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/flowform/engine/pkg/domain"
)

var (
	// DefaultMaxAnswerSize is 8KB; long-text and conversation answers fit
	// comfortably, while pathological payloads are rejected early.
	DefaultMaxAnswerSize = 8192
	// EnvMaxAnswerSize is the environment variable to override the default.
	EnvMaxAnswerSize = "FLOWFORM_MAX_ANSWER_SIZE"
)

// sanitizeAnswer cleans a textual answer by enforcing size limits,
// validating UTF-8, and stripping dangerous control characters.
// Non-string answers (numbers, choice arrays) pass through untouched.
func sanitizeAnswer(answer any) (any, error) {
	input, ok := answer.(string)
	if !ok {
		return answer, nil
	}

	// Reject rather than truncate, for deterministic state.
	limit := getMaxAnswerSize()
	if len(input) > limit {
		return nil, fmt.Errorf("%w: size=%d limit=%d", domain.ErrInvalidAnswer, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return nil, fmt.Errorf("%w: invalid UTF-8", domain.ErrInvalidAnswer)
	}

	// Strip control characters except \n, \t, \r. This prevents log
	// poisoning and terminal corruption in transcripts.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func getMaxAnswerSize() int {
	if val := os.Getenv(EnvMaxAnswerSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxAnswerSize
}
