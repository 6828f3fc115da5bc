package validation

import (
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"submission-service/internal/util"
)

var validate = validator.New()

// Rule is a predicate paired with the message reported when it fails
type Rule struct {
	Message string
	Check   func(v any) bool
}

func stringRule(msg string, fn func(string) bool) Rule {
	return Rule{Message: msg, Check: func(v any) bool {
		s, ok := v.(string)
		return ok && fn(s)
	}}
}

func numberRule(msg string, fn func(float64) bool) Rule {
	return Rule{Message: msg, Check: func(v any) bool {
		n, ok := v.(float64)
		return ok && fn(n)
	}}
}

func MinLen(n int, msg string) Rule {
	return stringRule(msg, func(s string) bool { return utf8.RuneCountInString(s) >= n })
}

func MaxLen(n int, msg string) Rule {
	return stringRule(msg, func(s string) bool { return utf8.RuneCountInString(s) <= n })
}

// MaxBytes bounds the UTF-8 encoded length rather than the rune count
func MaxBytes(n int, msg string) Rule {
	return stringRule(msg, func(s string) bool { return len(s) <= n })
}

func Email(msg string) Rule {
	return stringRule(msg, func(s string) bool { return validate.Var(s, "required,email") == nil })
}

func Matches(re *regexp.Regexp, msg string) Rule {
	return stringRule(msg, re.MatchString)
}

// DigitCount bounds the number of decimal digits in the value
func DigitCount(min, max int, msg string) Rule {
	return stringRule(msg, func(s string) bool {
		n := len(util.DigitsOnly(s))
		return n >= min && n <= max
	})
}

func Positive(msg string) Rule {
	return numberRule(msg, func(n float64) bool { return n > 0 })
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
