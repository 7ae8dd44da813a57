package rules

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// patternCache holds compiled user patterns. Schemas repeat the same few
// patterns across every request, so entries are never evicted below the cap.
var patternCache = struct {
	sync.RWMutex
	m map[string]*regexp.Regexp
}{m: map[string]*regexp.Regexp{}}

const patternCacheCap = 1024

// compilePattern compiles a user pattern. A JavaScript literal /body/flags is
// unwrapped and its i, m and s flags mapped onto RE2 flags; g, u and y have
// no meaning for a single match and are dropped.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	patternCache.RLock()
	re, ok := patternCache.m[pattern]
	patternCache.RUnlock()
	if ok {
		return re, nil
	}
	re, err := regexp.Compile(translatePattern(pattern))
	if err != nil {
		return nil, err
	}
	patternCache.Lock()
	if len(patternCache.m) < patternCacheCap {
		patternCache.m[pattern] = re
	}
	patternCache.Unlock()
	return re, nil
}

func translatePattern(p string) string {
	if len(p) < 2 || p[0] != '/' {
		return p
	}
	end := strings.LastIndexByte(p, '/')
	if end <= 0 {
		return p
	}
	body, flags := p[1:end], p[end+1:]
	if strings.Trim(flags, "gimsuy") != "" {
		return p
	}
	var goFlags strings.Builder
	for _, f := range "ims" {
		if strings.ContainsRune(flags, f) {
			goFlags.WriteRune(f)
		}
	}
	if goFlags.Len() == 0 {
		return body
	}
	return "(?" + goFlags.String() + ")" + body
}

// isCreatable reports whether s is a number literal: optional sign, decimal
// with optional fraction and exponent, 0x hex, or a leading-zero octal.
// A trailing type suffix (l, f, d) is tolerated.
func isCreatable(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	body := s
	if body[0] == '-' || body[0] == '+' {
		body = body[1:]
	}
	if body == "" {
		return false
	}
	if len(body) > 2 && (strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X")) {
		_, err := strconv.ParseUint(body[2:], 16, 64)
		return err == nil || isRangeErr(err)
	}
	if strings.HasPrefix(body, "#") && len(body) > 1 {
		_, err := strconv.ParseUint(body[1:], 16, 64)
		return err == nil || isRangeErr(err)
	}
	switch body[len(body)-1] {
	case 'l', 'L':
		body = body[:len(body)-1]
		return body != "" && strings.Trim(body, "0123456789") == "" && !(len(body) > 1 && body[0] == '0' && strings.ContainsAny(body, "89"))
	case 'f', 'F', 'd', 'D':
		body = body[:len(body)-1]
	}
	if body == "" {
		return false
	}
	if body[0] == '0' && len(body) > 1 && strings.Trim(body, "0123456789") == "" {
		// all digits with a leading zero: octal
		return strings.Trim(body, "01234567") == ""
	}
	for _, c := range body {
		if !(c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+') {
			return false
		}
	}
	if body[len(body)-1] == 'e' || body[len(body)-1] == 'E' {
		return false
	}
	_, err := strconv.ParseFloat(body, 64)
	return err == nil || isRangeErr(err)
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}
