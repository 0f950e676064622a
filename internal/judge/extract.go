package judge

// ExtractTrailingJSONObject returns the last balanced top-level brace
// span in s. Judge models often restate the rubric (sometimes with
// example JSON) before answering, so the last candidate is the one to
// trust. Braces inside string literals are ignored.
func ExtractTrailingJSONObject(s string) (string, bool) {
	var last string
	depth := 0
	start := -1
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					last = s[start : i+1]
				}
			}
		}
	}
	return last, last != ""
}
