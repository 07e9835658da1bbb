package evidence

// redact.go: secret-shaped pattern redaction for evidence snippets.
//
// Every snippet that lands in a Pack goes through Redact; there is no
// opt-out. Only the captured secret value is replaced, never the
// surrounding text, so the snippet stays useful as a citation.

import "regexp"

// Marker is the replacement for a captured secret value.
const Marker = "[REDACTED]"

// secretPattern pairs a compiled regex with the index of the capture group
// holding the secret value.
type secretPattern struct {
	name  string
	re    *regexp.Regexp
	group int
}

// secretPatterns is the fixed redaction list. Ordering matters: the
// assignment pattern runs before the opaque-token pattern so a redacted
// assignment is not re-matched as an opaque token.
var secretPatterns = []secretPattern{
	{
		name:  "assignment",
		re:    regexp.MustCompile(`(?i)(api[_-]?key|secret|password|passwd|token|credential)s?["']?\s*[:=]\s*["']?([^\s"']{6,})`),
		group: 2,
	},
	{
		name:  "bearer",
		re:    regexp.MustCompile(`(?i)bearer\s+([A-Za-z0-9_\-.~+/=]{8,})`),
		group: 1,
	},
	{
		name:  "opaque-token",
		re:    regexp.MustCompile(`\b([A-Za-z0-9_\-]{40,})\b`),
		group: 1,
	},
}

// Redact replaces every captured secret value in s with Marker.
func Redact(s string) string {
	for _, p := range secretPatterns {
		s = redactGroup(p.re, s, p.group)
	}
	return s
}

// redactGroup replaces capture group g of every match of re in s with
// Marker, leaving the rest of each match intact.
func redactGroup(re *regexp.Regexp, s string, g int) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var out []byte
	last := 0
	for _, m := range matches {
		start, end := m[2*g], m[2*g+1]
		if start < 0 || start < last {
			continue
		}
		out = append(out, s[last:start]...)
		out = append(out, Marker...)
		last = end
	}
	out = append(out, s[last:]...)
	return string(out)
}
