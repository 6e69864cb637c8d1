package protocol

// TranslateNewlines returns p with "\r" inserted before every '\n', the
// way the firmware sends strings. Other bytes pass through unchanged.
func TranslateNewlines(p []byte) []byte {
	out := make([]byte, 0, len(p)+len(p)/8)
	for _, c := range p {
		if c == '\n' {
			out = append(out, '\r')
		}
		out = append(out, c)
	}
	return out
}
