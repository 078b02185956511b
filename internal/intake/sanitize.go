package intake

import "strings"

// escaper writes single quotes as &#039; to match rows already in the table.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

var unescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#039;", "'",
	"&amp;", "&",
)

// Sanitize returns a copy with every string value trimmed and HTML-escaped.
// Other values are copied unchanged.
func Sanitize(s Submission) Submission {
	clean := make(Submission, len(s))
	for k, v := range s {
		if str, ok := v.(string); ok {
			clean[k] = Escape(strings.TrimSpace(str))
			continue
		}
		clean[k] = v
	}
	return clean
}

func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape for contexts that do their own encoding, such as
// URLs and plaintext mail.
func Unescape(s string) string {
	return unescaper.Replace(s)
}
