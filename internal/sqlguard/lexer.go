package sqlguard

import (
	"fmt"
	"strings"
	"unicode"
)

// statement is one top-level statement of a batch. words holds its upper-cased
// tokens with literals and quoted identifiers reduced to their opening quote.
type statement struct {
	text  string
	words []string
}

// splitStatements tokenizes sql and splits it on top-level semicolons. String
// literals, quoted identifiers and comments are skipped, so a ';' inside them
// does not split. Empty statements are dropped.
func splitStatements(sql string) ([]statement, error) {
	var (
		out   []statement
		words []string
		start = 0
		depth = 0
	)

	flush := func(end int) {
		text := strings.TrimSpace(sql[start:end])
		if len(words) > 0 {
			out = append(out, statement{text: text, words: words})
		}
		words = nil
	}

	for i := 0; i < len(sql); {
		c := sql[i]
		switch {
		case c == '\'':
			end, err := skipQuoted(sql, i, '\'')
			if err != nil {
				return nil, err
			}
			words = append(words, "'")
			i = end
		case c == '"':
			end, err := skipQuoted(sql, i, '"')
			if err != nil {
				return nil, err
			}
			words = append(words, `"`)
			i = end
		case c == '[':
			end, err := skipQuoted(sql, i, ']')
			if err != nil {
				return nil, err
			}
			words = append(words, "[")
			i = end
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				i = len(sql)
			} else {
				i += end + 1
			}
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				return nil, fmt.Errorf("unterminated block comment")
			}
			i += 2 + end + 2
		case c == '(':
			depth++
			words = append(words, "(")
			i++
		case c == ')':
			if depth == 0 {
				return nil, fmt.Errorf("unbalanced parenthesis at offset %d", i)
			}
			depth--
			words = append(words, ")")
			i++
		case c == ';':
			if depth != 0 {
				return nil, fmt.Errorf("semicolon inside parentheses at offset %d", i)
			}
			flush(i)
			start = i + 1
			i++
		case isWordByte(c):
			j := i
			for j < len(sql) && isWordByte(sql[j]) {
				j++
			}
			words = append(words, strings.ToUpper(sql[i:j]))
			i = j
		case unicode.IsSpace(rune(c)):
			i++
		default:
			words = append(words, string(c))
			i++
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parenthesis")
	}
	flush(len(sql))
	return out, nil
}

// skipQuoted returns the offset just past the quoted token opened at sql[i].
// A doubled closing character is an escape.
func skipQuoted(sql string, i int, closing byte) (int, error) {
	for j := i + 1; j < len(sql); j++ {
		if sql[j] != closing {
			continue
		}
		if j+1 < len(sql) && sql[j+1] == closing {
			j++
			continue
		}
		return j + 1, nil
	}
	return 0, fmt.Errorf("unterminated quoted text at offset %d", i)
}

func isWordByte(c byte) bool {
	return c == '_' || c == '@' || c == '#' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c >= 0x80
}
