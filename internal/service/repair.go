package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrTruncatedResponse marks model output that only parsed after structural
// completion (or not at all). The meal orchestrator uses it to decide whether
// a fallback generation pass is worth attempting.
var ErrTruncatedResponse = errors.New("AI response appears truncated")

// RepairResult describes how a raw model response was turned into valid JSON.
type RepairResult struct {
	JSON string
	// Completed is true when closing tokens had to be appended, i.e. the
	// response was truncated mid-structure.
	Completed bool
}

// RepairJSON converts a possibly-malformed LLM response into a parseable JSON
// document. Ordered attempts: strip fences and trailing prose, parse as-is,
// then structurally complete a truncated document and parse again.
func RepairJSON(raw string) (*RepairResult, error) {
	extracted := extractJSON(raw)
	if extracted == "" {
		return nil, fmt.Errorf("%w: no JSON object found in response", ErrTruncatedResponse)
	}

	if json.Valid([]byte(extracted)) {
		return &RepairResult{JSON: extracted}, nil
	}

	completed := completeJSON(extracted)
	if json.Valid([]byte(completed)) {
		return &RepairResult{JSON: completed, Completed: true}, nil
	}

	return nil, fmt.Errorf("%w: response is not valid JSON even after completion", ErrTruncatedResponse)
}

// extractJSON strips markdown code fences and pulls out the substring from
// the first '{' to its balanced closing '}', discarding any prose the model
// appended around the document. If the braces never balance (truncated
// output) it returns everything from the first '{' on.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}

	return s[start:]
}

// completeJSON appends the closing tokens a truncated JSON document is
// missing: a quote if it ends inside a string, then ']' / '}' unwinding the
// open-container stack innermost first. The result is guaranteed parseable
// for input that was valid up to the cut, though inner arrays may have lost
// trailing elements.
func completeJSON(s string) string {
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{', '[':
			if !inString {
				stack = append(stack, c)
			}
		case '}', ']':
			if !inString && len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	out := s
	if inString {
		if escaped {
			// Cut mid-escape; a lone trailing backslash would swallow
			// the closing quote.
			out += "\\"
		}
		out += "\""
	}

	// A truncation point like `"name":` or `[1, 2,` leaves a dangling
	// separator that no amount of closing brackets can fix.
	out = strings.TrimRight(out, " \t\r\n")
	if strings.HasSuffix(out, ",") {
		out = out[:len(out)-1]
	} else if strings.HasSuffix(out, ":") {
		out += "null"
	}

	var b strings.Builder
	b.WriteString(out)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}

	return b.String()
}
