package engine

// DoubleQuote rewrites 'single quoted' strings as JSON strings. Backslash
// escapes keep their JSON meaning, \' becomes a plain quote and a bare "
// inside the string is escaped. Double-quoted strings are copied unchanged.
// An unterminated single-quoted string is closed at the end of input so the
// decoder reports the truncation.
func DoubleQuote(src []byte) []byte {
	out := make([]byte, 0, len(src)+8)
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				return append(out, src[i:]...)
			}
			out = append(out, src[i:j+1]...)
			i = j
		case '\'':
			out = append(out, '"')
			i++
			for ; i < len(src) && src[i] != '\''; i++ {
				switch {
				case src[i] == '\\' && i+1 < len(src) && src[i+1] == '\'':
					out = append(out, '\'')
					i++
				case src[i] == '\\' && i+1 < len(src):
					out = append(out, src[i], src[i+1])
					i++
				case src[i] == '"':
					out = append(out, '\\', '"')
				default:
					out = append(out, src[i])
				}
			}
			if i >= len(src) {
				return out
			}
			out = append(out, '"')
		default:
			out = append(out, c)
		}
	}
	return out
}
