// Package extract converts raw model output into a bounded list of
// subtask titles. Models are asked for strict JSON but cannot be trusted
// to comply, so extraction runs an ordered chain of fallback stages and
// always produces a usable result, even for garbage input.
package extract

import (
	"encoding/json"
	"strings"
)

// MaxSubtasks is the upper bound on extracted subtask titles.
const MaxSubtasks = 5

// Subtasks extracts at most MaxSubtasks trimmed, non-empty titles from
// raw model output. It never fails: stages are attempted in order and
// the final line heuristic always yields a (possibly empty) result.
//
// Stage 1 parses the whole text as a {"subtasks": [...]} document.
// Stage 2 strips markdown code fences and retries stage 1.
// Stage 3 splits the raw text into lines and strips list prefixes.
//
// Once stage 1 or 2 obtains a valid document, later stages are not
// attempted even if the item count is zero. A structured reply with no
// usable subtasks means the model answered and had nothing to offer,
// which is different from the model ignoring the format entirely.
func Subtasks(raw string) []string {
	if titles, ok := parseStructured(raw); ok {
		return sanitize(titles)
	}
	if titles, ok := parseStructured(stripFences(raw)); ok {
		return sanitize(titles)
	}
	return sanitize(extractLines(raw))
}

// parseStructured attempts a strict JSON parse of text. The second
// return value reports whether text was a valid JSON document at all.
// Any valid document counts as success: when it is not an object, or
// its subtasks field is missing or not an array, the stage succeeds
// with zero items instead of falling through. Decoding into any rather
// than a typed struct keeps non-object documents and non-array fields
// from being mistaken for parse failures.
func parseStructured(text string) ([]any, bool) {
	var doc any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &doc); err != nil {
		return nil, false
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, true
	}
	items, ok := obj["subtasks"].([]any)
	if !ok {
		return nil, true
	}
	return items, true
}

// stripFences removes markdown code fence markers, both typed (```json)
// and untyped (```), from the text. Fence markers anywhere in the text
// are removed so that trailing fences and nested blocks collapse too.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// extractLines is the terminal heuristic stage: split on line breaks,
// strip any leading ordinal or bullet prefix, and keep what remains.
func extractLines(text string) []any {
	var out []any
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		line = strings.TrimSpace(stripListPrefix(line))
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == MaxSubtasks {
			break
		}
	}
	return out
}

// stripListPrefix removes a leading run of digits, dots, parens, dashes,
// asterisks, and whitespace from the start of a line. Only the prefix is
// touched; interior punctuation stays intact.
func stripListPrefix(line string) string {
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' || c == ')' || c == '-' || c == '*' || c == ' ' || c == '\t':
		default:
			return line[i:]
		}
		i++
	}
	return ""
}

// sanitize applies the universal post-processing: coerce each element to
// a string, trim, drop empties, and bound the result to MaxSubtasks.
func sanitize(items []any) []string {
	out := make([]string, 0, MaxSubtasks)
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxSubtasks {
			break
		}
	}
	return out
}
