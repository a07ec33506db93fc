package tailoring

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?i)^```(json)?|```$")

// CleanResponse trims model output down to the JSON object it carries: leading
// and trailing code fences are removed, then everything outside the first '{'
// and the last '}'.
func CleanResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = fencePattern.ReplaceAllString(cleaned, "")

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last > first {
		cleaned = cleaned[first : last+1]
	}
	return cleaned
}

// Output is the document pair the model must return.
type Output struct {
	Resume      string
	CoverLetter string
}

// ParseResponse cleans raw and decodes it. Errors are *ResponseError values
// carrying raw unchanged.
func ParseResponse(raw string) (Output, error) {
	if strings.TrimSpace(raw) == "" {
		return Output{}, &ResponseError{Kind: ErrResponseFormat, Raw: raw, Cause: errors.New("empty response")}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(CleanResponse(raw)), &fields); err != nil {
		return Output{}, &ResponseError{Kind: ErrResponseFormat, Raw: raw, Cause: err}
	}

	resume, okResume := stringField(fields, "resume")
	letter, okLetter := stringField(fields, "coverLetter")
	if !okResume || !okLetter {
		return Output{}, &ResponseError{Kind: ErrResponseShape, Raw: raw}
	}
	return Output{Resume: resume, CoverLetter: letter}, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
