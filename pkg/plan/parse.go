package plan

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrUnparsable is returned when no recovery strategy yields a JSON object.
// This is the single hard failure of the plan pipeline; callers are expected
// to retry plan generation upstream.
var ErrUnparsable = errors.New("plan: no JSON object found in input")

// Raw is the loosely-typed plan object produced by recovery parsing. It is
// consumed by Normalize and must not travel further down the pipeline.
type Raw map[string]any

// known conversational prefixes a generator may emit before the JSON body.
var planPrefixes = []string{
	"PLAN:",
	"Here is the plan:",
	"Here's the plan:",
	"Plan:",
}

var (
	trailingCommaObj = regexp.MustCompile(`,\s*}`)
	trailingCommaArr = regexp.MustCompile(`,\s*]`)
)

// Parse recovers a plan object from free-form generator output.
//
// Strategies are tried in order: direct parse, fence-stripped and
// prefix-stripped parse, substring between the first "{" and last "}", and
// finally quote-style plus trailing-comma repair on that substring. The first
// strategy producing a JSON object wins; if none does, ErrUnparsable is
// returned.
func Parse(raw string) (Raw, error) {
	s := strings.TrimSpace(stripCodeFences(raw))
	s = stripPrefixes(s)

	for _, parse := range []func(string) (Raw, bool){
		parseDirect,
		parseSubstring,
		parseRepaired,
	} {
		if obj, ok := parse(s); ok {
			return obj, nil
		}
	}
	return nil, ErrUnparsable
}

// parseDirect attempts a plain JSON parse of the full input.
func parseDirect(s string) (Raw, bool) {
	return tryObject(s)
}

// parseSubstring extracts the region between the first "{" and the last "}".
func parseSubstring(s string) (Raw, bool) {
	sub, ok := objectSubstring(s)
	if !ok {
		return nil, false
	}
	return tryObject(sub)
}

// parseRepaired applies quote-style and trailing-comma fixes before a final
// substring parse. Single quotes become double quotes wholesale; this is a
// last resort and can corrupt quoted apostrophes, which is acceptable for
// input that failed every stricter strategy.
func parseRepaired(s string) (Raw, bool) {
	fixed := strings.ReplaceAll(s, "'", `"`)
	fixed = trailingCommaObj.ReplaceAllString(fixed, "}")
	fixed = trailingCommaArr.ReplaceAllString(fixed, "]")

	sub, ok := objectSubstring(fixed)
	if !ok {
		return nil, false
	}
	return tryObject(sub)
}

// tryObject parses s and succeeds only for a top-level JSON object.
func tryObject(s string) (Raw, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Raw(obj), true
}

// objectSubstring returns the slice of s from the first "{" to the last "}".
func objectSubstring(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// stripCodeFences removes a surrounding markdown code fence, including an
// optional language tag on the opening fence.
func stripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	lines := strings.Split(t, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// stripPrefixes removes known conversational lead-ins, case-insensitively.
func stripPrefixes(s string) string {
	lower := strings.ToLower(s)
	for _, prefix := range planPrefixes {
		if strings.HasPrefix(lower, strings.ToLower(prefix)) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}
