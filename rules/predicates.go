package rules

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	j "github.com/goccy/go-json"

	"github.com/reoring/amisform/node"
)

var (
	reInt          = regexp.MustCompile(`^(?:[-+]?(?:0|[1-9]\d*))$`)
	reFloat        = regexp.MustCompile(`^(?:[-+]?(?:\d+))?(?:\.\d*)?(?:[eE][\+\-]?(?:\d+))?$`)
	reWords        = regexp.MustCompile(`(?i)^[A-Z\s]+$`)
	reSpecialWords = regexp.MustCompile(`(?i)^[A-Z\s\x{00C0}-\x{017F}]+$`)
	reURLPath      = regexp.MustCompile(`(?i)^[a-z0-9_\-]+$`)
	rePhone        = regexp.MustCompile(`^[1]([3-9])[0-9]{9}$`)
	reTel          = regexp.MustCompile(`^(\(\d{3,4}\)|\d{3,4}-|\s)?\d{7,14}$`)
	reZipcode      = regexp.MustCompile(`^[1-9]{1}(\d+){5}$`)
	reID           = regexp.MustCompile(`(^[1-9]\d{5}(18|19|([23]\d))\d{2}((0[1-9])|(10|11|12))(([0-2][1-9])|10|20|30|31)\d{3}[0-9Xx]$)|(^[1-9]\d{5}\d{2}((0[1-9])|(10|11|12))(([0-2][1-9])|10|20|30|31)\d{3}$)`)
	reHostLabel    = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)
)

// IsRequired is false for missing, null, empty arrays and empty strings.
func IsRequired(v *node.Node) bool {
	switch v.Kind() {
	case node.KindMissing, node.KindNull:
		return false
	case node.KindArray:
		return v.Len() > 0
	case node.KindString:
		return v.Text() != ""
	}
	return true
}

// IsExisty is false only for missing and null.
func IsExisty(v *node.Node) bool { return !v.IsNullish() }

// IsEmail accepts a bare address with a dotted domain.
func IsEmail(v *node.Node) bool {
	if !v.IsString() {
		return false
	}
	s := v.Text()
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return validHost(s[at+1:], true)
}

// IsURL accepts absolute http, https and ftp URLs with a host.
func IsURL(v *node.Node) bool {
	if !v.IsString() {
		return false
	}
	s := v.Text()
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
	default:
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	return host == "localhost" || validHost(host, false) || isIPLiteral(host)
}

func validHost(host string, needDot bool) bool {
	host = strings.TrimSuffix(host, ".")
	if host == "" || len(host) > 253 {
		return false
	}
	labels := strings.Split(host, ".")
	if needDot && len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if !reHostLabel.MatchString(l) {
			return false
		}
	}
	tld := labels[len(labels)-1]
	for _, r := range tld {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isIPLiteral(host string) bool {
	if strings.Contains(host, ":") {
		return true // url.Parse already validated the brackets
	}
	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 || strings.Trim(p, "0123456789") != "" {
			return false
		}
		n := 0
		for _, c := range p {
			n = n*10 + int(c-'0')
		}
		if n > 255 {
			return false
		}
	}
	return true
}

// IsInt matches an optionally signed integer without leading zeros.
func IsInt(v *node.Node) bool { return matchText(v, reInt) }

// IsFloat matches decimal and scientific float notation.
func IsFloat(v *node.Node) bool { return matchText(v, reFloat) }

// IsAlpha requires every character to be a letter.
func IsAlpha(v *node.Node) bool { return allRunes(v, unicode.IsLetter) }

// IsAlphanumeric requires every character to be a letter or a digit.
func IsAlphanumeric(v *node.Node) bool {
	return allRunes(v, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
}

func allRunes(v *node.Node, fn func(rune) bool) bool {
	if v.IsNullish() {
		return false
	}
	s := v.Text()
	if s == "" {
		return false
	}
	for _, r := range s {
		if !fn(r) {
			return false
		}
	}
	return true
}

// IsNumeric reports whether the text is a number in decimal, hex, octal or
// scientific notation.
func IsNumeric(v *node.Node) bool {
	if v.IsNullish() {
		return false
	}
	return isCreatable(v.Text())
}

// IsWords matches letters and whitespace.
func IsWords(v *node.Node) bool { return matchText(v, reWords) }

// IsSpecialWords matches letters, accented Latin letters and whitespace.
func IsSpecialWords(v *node.Node) bool { return matchText(v, reSpecialWords) }

// IsURLPath matches letters, digits, '-' and '_'.
func IsURLPath(v *node.Node) bool { return matchText(v, reURLPath) }

// IsLength requires exactly n characters.
func IsLength(v *node.Node, n int) bool {
	return !v.IsNullish() && utf8.RuneCountInString(v.Text()) == n
}

// MinLength requires strictly more than n characters.
func MinLength(v *node.Node, n int) bool {
	return !v.IsNullish() && utf8.RuneCountInString(v.Text()) > n
}

// MaxLength allows at most n characters.
func MaxLength(v *node.Node, n int) bool {
	return !v.IsNullish() && utf8.RuneCountInString(v.Text()) <= n
}

// MatchRegexp reports whether pattern matches somewhere in the text. The
// pattern may be written as a JavaScript literal such as /^a+$/i. An
// invalid pattern never matches.
func MatchRegexp(v *node.Node, pattern string) bool {
	re, err := compilePattern(pattern)
	if err != nil {
		return false
	}
	return matchText(v, re)
}

func matchText(v *node.Node, re *regexp.Regexp) bool {
	if v.IsNullish() {
		return false
	}
	s := v.Text()
	if s == "" {
		return false
	}
	return re.MatchString(s)
}

// Maximum requires value < x.
func Maximum(v *node.Node, x float64) bool {
	f, ok := v.Numeric()
	return ok && f < x
}

// Minimum requires value > x.
func Minimum(v *node.Node, x float64) bool {
	f, ok := v.Numeric()
	return ok && f > x
}

// Lt requires value <= x.
func Lt(v *node.Node, x float64) bool {
	f, ok := v.Numeric()
	return ok && f <= x
}

// Gt requires value >= x.
func Gt(v *node.Node, x float64) bool {
	f, ok := v.Numeric()
	return ok && f >= x
}

// Equals reports structural equality with want.
func Equals(v, want *node.Node) bool {
	return !v.IsMissing() && v.Equal(want)
}

// EqualsField compares the value with its own member named field. It can
// only hold when the value is an object; outer data is not consulted.
func EqualsField(v *node.Node, field string) bool {
	if v.IsNullish() {
		return false
	}
	return v.Equal(v.Get(field))
}

// IsJSON reports whether the text is valid JSON.
func IsJSON(v *node.Node) bool {
	if v.IsNullish() {
		return false
	}
	return j.Valid([]byte(v.Text()))
}

// IsPhoneNumber matches an 11 digit mainland China mobile number.
func IsPhoneNumber(v *node.Node) bool { return matchText(v, rePhone) }

// IsTelNumber matches a landline number with an optional area code.
func IsTelNumber(v *node.Node) bool { return matchText(v, reTel) }

// IsZipcode matches a six digit postal code.
func IsZipcode(v *node.Node) bool { return matchText(v, reZipcode) }

// IsID matches the structure of a 15 or 18 character resident ID number.
// The check digit is not verified.
func IsID(v *node.Node) bool { return matchText(v, reID) }

// NotEmptyString is true when the text is blank or absent. The polarity is
// kept as amis ships it.
func NotEmptyString(v *node.Node) bool {
	return strings.TrimSpace(v.Text()) == ""
}

// IsTrue requires the boolean true.
func IsTrue(v *node.Node) bool { return v.IsBool() && v.BoolValue() }

// IsFalse requires the boolean false.
func IsFalse(v *node.Node) bool { return v.IsBool() && !v.BoolValue() }

// IsEmptyString requires the empty string.
func IsEmptyString(v *node.Node) bool { return v.IsString() && v.Text() == "" }

// IsUndefined is always false: decoded JSON has no undefined values.
func IsUndefined(*node.Node) bool { return false }
