package memory

import (
	"regexp"
	"strings"
)

// secretPatterns masks passwords and tokens in command text before it
// reaches storage. Quoted values are handled before unquoted ones so a
// quoted secret is masked as a whole.
var secretPatterns = []struct {
	re          *regexp.Regexp
	replacement string
}{
	// Flags like -p, --password followed by quoted values
	{regexp.MustCompile(`(?i)(-p|--password|--pass|--pwd)\s+"[^"]*"`), `$1 ****`},
	{regexp.MustCompile(`(?i)(-p|--password|--pass|--pwd)\s+'[^']*'`), `$1 ****`},
	// Flags followed by unquoted values
	{regexp.MustCompile(`(?i)(-p|--password|--pass|--pwd)\s+\S+`), `$1 ****`},
	// Key=value with double quotes
	{regexp.MustCompile(`(?i)(password=|pwd=|pass=)"[^"]*"`), `$1****`},
	{regexp.MustCompile(`(?i)(token=|api_key=|apikey=|secret=)"[^"]*"`), `$1****`},
	// Key=value with single quotes
	{regexp.MustCompile(`(?i)(password=|pwd=|pass=)'[^']*'`), `$1****`},
	{regexp.MustCompile(`(?i)(token=|api_key=|apikey=|secret=)'[^']*'`), `$1****`},
	// Key=value without quotes
	{regexp.MustCompile(`(?i)(password=|pwd=|pass=)\S+`), `$1****`},
	{regexp.MustCompile(`(?i)(token=|api_key=|apikey=|secret=)\S+`), `$1****`},
	// Credentials embedded in URLs
	{regexp.MustCompile(`(://[^:/@\s]+:)([^@\s]+)(@)`), `$1****$3`},
}

// ObfuscateSecrets masks passwords and secrets in a command string and
// trims surrounding whitespace. Blank input yields the empty string.
func ObfuscateSecrets(command string) string {
	cleaned := strings.TrimSpace(command)
	if cleaned == "" {
		return ""
	}

	for _, p := range secretPatterns {
		cleaned = p.re.ReplaceAllString(cleaned, p.replacement)
	}
	return cleaned
}
