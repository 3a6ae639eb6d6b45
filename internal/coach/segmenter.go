// Package coach implements the AI coach action pipeline: segmenting raw
// model responses, classifying structured payloads into actions, tracking
// the confirmation lifecycle, and executing confirmed actions.
package coach

import (
	"regexp"
	"strings"
)

// TruncationWarning is appended to the display text when a response carried
// a truncated structured payload and nothing valid alongside it. A partial
// payload is unsafe to execute, so the degradation is user-visible rather
// than silent.
const TruncationWarning = "It looks like part of my answer was cut off. Please ask me again for a shorter version."

var (
	// closedBlockPattern matches a closed fenced payload, optionally tagged
	// json or action. Non-greedy so adjacent blocks match separately.
	closedBlockPattern = regexp.MustCompile("(?s)```(?:json|action)?[ \t]*\n?(.*?)```")

	// danglingFencePattern matches an opening fence with no matching close
	// before the end of the string. Only meaningful after closed blocks
	// have been removed.
	danglingFencePattern = regexp.MustCompile("(?s)```(?:json|action)?.*$")
)

// Segmentation is the result of splitting one complete raw response.
type Segmentation struct {
	// Display is the residual prose with all fenced spans removed.
	Display string

	// Payloads are the inner texts of closed fenced blocks, in order.
	Payloads []string

	// Truncated reports whether a dangling opening fence was found.
	Truncated bool
}

// Segment extracts fenced structured payloads from a complete response
// string. Closed blocks become payloads; a dangling open fence is stripped
// from the display text and flagged as truncated.
func Segment(raw string) Segmentation {
	var seg Segmentation

	working := raw
	for _, m := range closedBlockPattern.FindAllStringSubmatch(working, -1) {
		if payload := strings.TrimSpace(m[1]); payload != "" {
			seg.Payloads = append(seg.Payloads, payload)
		}
	}
	working = closedBlockPattern.ReplaceAllString(working, "")

	// Any fence left after removing closed pairs has no matching close.
	if strings.Contains(working, "```") {
		seg.Truncated = true
		working = danglingFencePattern.ReplaceAllString(working, "")
	}

	seg.Display = strings.TrimSpace(working)
	return seg
}
