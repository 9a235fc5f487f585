package smartcode

import (
	"fmt"
	"regexp"
	"strings"
)

// Root is the fixed first token of every smart code.
const Root = "HERA"

const (
	minSegments = 3
	maxSegments = 8
)

// codeRegex is the full grammar: root, 3-8 uppercase segments, lowercase
// version suffix. The first segment is the industry/system token and is held
// to a slightly tighter length than the rest.
var codeRegex = regexp.MustCompile(`^HERA\.[A-Z0-9_]{3,15}(\.[A-Z0-9_]{2,30}){2,7}\.v[0-9]+$`)

var (
	segmentRegex = regexp.MustCompile(`^[A-Z0-9_]+$`)
	versionRegex = regexp.MustCompile(`^v[0-9]+$`)
)

// Error describes why a smart code was rejected. It always names the
// offending code so the caller can surface it verbatim.
type Error struct {
	Code   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid smart code %q: %s", e.Code, e.Reason)
}

// IsValid reports whether code matches the smart code grammar.
func IsValid(code string) bool {
	return codeRegex.MatchString(code)
}

// Validate checks code against the grammar and returns a descriptive error
// naming the violated rule. The fast path is a single regex match; the error
// path re-parses the code to find out what exactly is wrong.
func Validate(code string) error {
	if codeRegex.MatchString(code) {
		return nil
	}

	if code == "" {
		return &Error{Code: code, Reason: "code is empty"}
	}

	parts := strings.Split(code, ".")
	if parts[0] != Root {
		if strings.EqualFold(parts[0], Root) {
			return &Error{Code: code, Reason: fmt.Sprintf("root token must be uppercase %q", Root)}
		}
		return &Error{Code: code, Reason: fmt.Sprintf("code must start with root token %q", Root)}
	}

	if len(parts) < 2 {
		return &Error{Code: code, Reason: "missing version suffix (expected trailing .v<digits>)"}
	}
	version := parts[len(parts)-1]
	if !versionRegex.MatchString(version) {
		if versionRegex.MatchString(strings.ToLower(version)) {
			return &Error{Code: code, Reason: "version marker must use a lowercase v"}
		}
		return &Error{Code: code, Reason: fmt.Sprintf("malformed version suffix %q (expected v<digits>)", version)}
	}

	segments := parts[1 : len(parts)-1]
	if len(segments) < minSegments || len(segments) > maxSegments {
		return &Error{Code: code, Reason: fmt.Sprintf("expected %d-%d segments between root and version, got %d", minSegments, maxSegments, len(segments))}
	}
	for _, seg := range segments {
		if seg == "" {
			return &Error{Code: code, Reason: "empty segment"}
		}
		if !segmentRegex.MatchString(seg) {
			if segmentRegex.MatchString(strings.ToUpper(seg)) {
				return &Error{Code: code, Reason: fmt.Sprintf("segment %q must be uppercase", seg)}
			}
			return &Error{Code: code, Reason: fmt.Sprintf("segment %q contains characters outside [A-Z0-9_]", seg)}
		}
	}

	// segment length bounds are the only rules left
	return &Error{Code: code, Reason: "segment length out of bounds"}
}
