package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var slidesArrayStart = regexp.MustCompile(`"slides"\s*:\s*\[`)

// extractJSON pulls the JSON object out of free-form model output. Valid
// JSON is returned as-is; truncated output is repaired by cutting the
// slides array at the last complete element and re-closing the document.
func extractJSON(text string) ([]byte, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON object in output", ErrParse)
	}

	var candidate string
	if end > start {
		candidate = text[start : end+1]
	} else {
		candidate = text[start:]
	}

	if json.Valid([]byte(candidate)) {
		return []byte(candidate), nil
	}
	return repairTruncatedJSON(candidate)
}

func repairTruncatedJSON(jsonStr string) ([]byte, error) {
	loc := slidesArrayStart.FindStringIndex(jsonStr)
	if loc == nil {
		return nil, fmt.Errorf("%w: no slides array in truncated output", ErrParse)
	}
	slidesStart := loc[1]

	// Track brace depth outside strings to find the last complete slide.
	depth := 0
	lastCompleteEnd := slidesStart
	inString := false
	escape := false

	for i := slidesStart; i < len(jsonStr); i++ {
		ch := jsonStr[i]
		if escape {
			escape = false
			continue
		}
		switch ch {
		case '\\':
			escape = true
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
					lastCompleteEnd = i + 1
				}
			}
		}
	}

	if lastCompleteEnd <= slidesStart {
		return nil, fmt.Errorf("%w: no complete slide objects in truncated output", ErrParse)
	}

	repaired := jsonStr[:lastCompleteEnd] + `], "companionDoc": "See slides for full content." }`
	if !json.Valid([]byte(repaired)) {
		return nil, fmt.Errorf("%w: repaired output still invalid", ErrParse)
	}
	return []byte(repaired), nil
}
