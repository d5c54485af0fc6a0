package notify

import "strings"

// escapeAppleScript escapes backslashes and double quotes so the string can sit
// inside an AppleScript string literal.
func escapeAppleScript(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// escapeForPowerShell escapes special characters for single-quoted PowerShell strings
func escapeForPowerShell(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch c {
		case '\'':
			b.WriteString("''")
		case '`', '$':
			b.WriteRune('`')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
