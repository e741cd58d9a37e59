package sed

import "fmt"

// ExpandRanges replaces every "a-z" style range token in s with the explicit
// inclusive run of code points between its endpoints. A backslash escapes the
// next character; a dash with no emitted character before it or no input
// after it is literal. Chained ranges ("a-c-e-g") expand left to right, each
// continuing from the last emitted character. A range whose start code point
// exceeds its end is an error.
func ExpandRanges(s string) (string, error) {
	in := []rune(s)
	out := make([]rune, 0, len(in))
	for i := 0; i < len(in); {
		c := in[i]
		if c == '\\' && i+1 < len(in) {
			out = append(out, in[i+1])
			i += 2
			continue
		}
		if c == '-' && len(out) > 0 && i+1 < len(in) {
			lo, hi := out[len(out)-1], in[i+1]
			if lo > hi {
				return "", fmt.Errorf("reversed character range %q-%q", lo, hi)
			}
			for r := lo + 1; r <= hi; r++ {
				out = append(out, r)
			}
			i += 2
			continue
		}
		out = append(out, c)
		i++
	}
	return string(out), nil
}
