package cli

import "strings"

// tokenize splits a line into whitespace-separated tokens, treating a
// single- or double-quoted run as one token that preserves internal
// whitespace. Grounded on the original shell's split_command_line.
func tokenize(line string) []string {
	var tokens []string
	runes := []rune(line)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '"' || c == '\'':
			quote := c
			i++
			var b strings.Builder
			for i < len(runes) && runes[i] != quote {
				b.WriteRune(runes[i])
				i++
			}
			if i < len(runes) {
				i++ // skip closing quote
			}
			tokens = append(tokens, b.String())
		default:
			var b strings.Builder
			for i < len(runes) && !isSpace(runes[i]) {
				if runes[i] == '"' || runes[i] == '\'' {
					quote := runes[i]
					i++
					for i < len(runes) && runes[i] != quote {
						b.WriteRune(runes[i])
						i++
					}
					if i < len(runes) {
						i++ // skip closing quote
					}
					continue
				}
				b.WriteRune(runes[i])
				i++
			}
			tokens = append(tokens, b.String())
		}
	}
	return tokens
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// parseProperties reads "key=value" tokens into a map. Tokens without an
// '=' are silently ignored.
func parseProperties(args []string) map[string]string {
	properties := make(map[string]string)
	for _, arg := range args {
		if idx := strings.Index(arg, "="); idx >= 0 {
			properties[arg[:idx]] = arg[idx+1:]
		}
	}
	return properties
}
