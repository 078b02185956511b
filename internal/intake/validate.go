// Package intake holds the pure rules applied to a raw intake submission:
// validation, sanitization, conversion into a record and the scheduling
// redirect.
package intake

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Submission is the decoded JSON object posted by the intake form.
type Submission map[string]any

type field struct {
	key   string
	label string
}

// requiredFields is ordered; messages are reported in this order.
var requiredFields = []field{
	{"voornaam", "Voornaam"},
	{"achternaam", "Achternaam"},
	{"email", "Email"},
	{"leeftijd", "Leeftijd"},
	{"lengte", "Lengte"},
	{"gewicht", "Gewicht"},
	{"beroep", "Beroep"},
	{"blessures", "Blessures"},
	{"struggle", "Struggle"},
	{"trainFrequentie", "Train frequentie"},
	{"uiteten", "Uit eten frequentie"},
	{"voedingAanpak", "Voeding aanpak"},
	{"doelen", "Doelen"},
	{"importance", "Belangrijkheid doelen"},
	{"actie", "Actie ondernemen"},
	{"startNu", "Nu starten"},
}

const (
	MinAge        = 16
	MaxAge        = 100
	MinImportance = 0
	MaxImportance = 10
)

const (
	msgInvalidEmail      = "Ongeldig email adres"
	msgInvalidPhone      = "Ongeldig telefoonnummer"
	msgAgeOutOfRange     = "Leeftijd moet tussen 16 en 100 zijn"
	msgImportanceOutside = "Belangrijkheid moet tussen 0 en 10 zijn"
)

var (
	validate = validator.New()
	phoneRe  = regexp.MustCompile(`^[\d\s+\-()]+$`)
)

var (
	ageRule        = fmt.Sprintf("min=%d,max=%d", MinAge, MaxAge)
	importanceRule = fmt.Sprintf("min=%d,max=%d", MinImportance, MaxImportance)
)

// Validate returns one Dutch message per violated rule, or nil when the
// submission is acceptable.
func Validate(s Submission) []string {
	var errs []string

	for _, f := range requiredFields {
		if !present(s[f.key]) {
			errs = append(errs, fmt.Sprintf("%s is verplicht", f.label))
		}
	}

	if v := s["email"]; present(v) && !validEmail(v) {
		errs = append(errs, msgInvalidEmail)
	}

	if v := s["telefoon"]; present(v) && !phoneRe.MatchString(strings.TrimSpace(stringify(v))) {
		errs = append(errs, msgInvalidPhone)
	}

	if v := s["leeftijd"]; present(v) {
		if !inRange(v, ageRule) {
			errs = append(errs, msgAgeOutOfRange)
		}
	}

	if v := s["importance"]; present(v) && !inRange(v, importanceRule) {
		errs = append(errs, msgImportanceOutside)
	}

	return errs
}

// present reports whether a value counts as filled in. Zero numbers and the
// string "0" are filled in; null, false, blank strings and empty
// collections are not.
func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return strings.TrimSpace(val) != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

func validEmail(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	if validate.Var(s, "required,email") != nil {
		return false
	}
	// Bare hosts like noah@localhost are not deliverable from here.
	return strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}

// inRange reports whether v is a whole number satisfying rule.
func inRange(v any, rule string) bool {
	n, ok := toInt(v)
	return ok && validate.Var(n, rule) == nil
}

// toInt converts a JSON scalar into a whole number. Fractions are
// truncated; anything non-numeric fails.
func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return int(val), true
	case int:
		return val, true
	case int64:
		return int(val), true
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n), true
		}
		if f, err := val.Float64(); err == nil {
			return int(f), true
		}
		return 0, false
	case string:
		s := strings.TrimSpace(val)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(f), true
		}
		return 0, false
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// stringify renders a JSON scalar as text for storage.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "1"
		}
		return ""
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
