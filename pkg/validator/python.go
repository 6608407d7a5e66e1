package validator

import (
	"fmt"
	"strings"
)

// checkPythonSyntax runs a structural scan over Python source and
// returns line-numbered errors. It is not a full parser: it tracks
// bracket nesting, string and comment state, block headers, and
// indentation after headers — enough to reject the malformed output
// an LLM typically produces while accepting real Python.
func checkPythonSyntax(content string) []string {
	var errs []string

	type openBracket struct {
		ch   rune
		line int
	}
	var stack []openBracket

	closerFor := map[rune]rune{')': '(', ']': '[', '}': '{'}

	lines := strings.Split(content, "\n")

	inTriple := false
	var tripleQuote string

	// headerPending is set when a logical line ended with ':' at
	// bracket depth zero; the next statement must be indented deeper.
	headerPending := false
	headerLine := 0
	headerIndent := 0

	for lineIdx, line := range lines {
		lineNo := lineIdx + 1

		if inTriple {
			if idx := strings.Index(line, tripleQuote); idx >= 0 {
				inTriple = false
				line = line[idx+3:]
			} else {
				continue
			}
		}

		stripped := strings.TrimSpace(line)
		indent := indentWidth(line)

		if headerPending && stripped != "" && !strings.HasPrefix(stripped, "#") && len(stack) == 0 {
			if indent <= headerIndent {
				errs = append(errs, fmt.Sprintf("line %d: expected an indented block after line %d", lineNo, headerLine))
			}
			headerPending = false
		}

		lastCode := rune(0)  // last significant char on this line
		sawTopColon := false // a ':' at bracket depth zero anywhere on the line
		runes := []rune(line)
		i := 0
		for i < len(runes) {
			ch := runes[i]

			// Triple-quoted strings.
			if ch == '"' || ch == '\'' {
				q := string(ch)
				if i+2 < len(runes) && string(runes[i:i+3]) == strings.Repeat(q, 3) {
					end := strings.Index(string(runes[i+3:]), strings.Repeat(q, 3))
					if end < 0 {
						inTriple = true
						tripleQuote = strings.Repeat(q, 3)
						i = len(runes)
						break
					}
					i += 3 + end + 3
					lastCode = ch
					continue
				}
				// Single-line string: scan to the closing quote.
				j := i + 1
				closed := false
				for j < len(runes) {
					if runes[j] == '\\' {
						j += 2
						continue
					}
					if runes[j] == ch {
						closed = true
						break
					}
					j++
				}
				if !closed {
					// A trailing backslash continues the string; only
					// flag when the line genuinely ends inside it.
					if !strings.HasSuffix(line, "\\") {
						errs = append(errs, fmt.Sprintf("line %d: unterminated string literal", lineNo))
					}
					i = len(runes)
					break
				}
				i = j + 1
				lastCode = ch
				continue
			}

			if ch == '#' {
				break
			}

			switch ch {
			case '(', '[', '{':
				stack = append(stack, openBracket{ch, lineNo})
			case ')', ']', '}':
				if len(stack) == 0 {
					errs = append(errs, fmt.Sprintf("line %d: unexpected %q", lineNo, string(ch)))
				} else {
					top := stack[len(stack)-1]
					if top.ch != closerFor[ch] {
						errs = append(errs, fmt.Sprintf("line %d: mismatched %q, %q opened on line %d", lineNo, string(ch), string(top.ch), top.line))
					}
					stack = stack[:len(stack)-1]
				}
			}

			if ch == ':' && len(stack) == 0 {
				sawTopColon = true
			}
			if ch != ' ' && ch != '\t' {
				lastCode = ch
			}
			i++
		}

		if lastCode == ':' && len(stack) == 0 {
			headerPending = true
			headerLine = lineNo
			headerIndent = indent
		} else if isBlockHeader(stripped) && !sawTopColon && len(stack) == 0 && lastCode != 0 && lastCode != '\\' {
			// Complete logical line starting with a block keyword must
			// end with a colon.
			errs = append(errs, fmt.Sprintf("line %d: expected ':' at end of statement", lineNo))
		}
	}

	for _, b := range stack {
		errs = append(errs, fmt.Sprintf("line %d: %q was never closed", b.line, string(b.ch)))
	}
	if inTriple {
		errs = append(errs, "unterminated triple-quoted string at end of file")
	}
	return errs
}

func indentWidth(line string) int {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 8
		default:
			return w
		}
	}
	return w
}

var blockKeywords = []string{"def ", "class ", "if ", "elif ", "for ", "while ", "with ", "try:", "try ", "else", "except", "finally"}

func isBlockHeader(stripped string) bool {
	for _, kw := range blockKeywords {
		if strings.HasPrefix(stripped, kw) {
			return true
		}
	}
	return false
}
