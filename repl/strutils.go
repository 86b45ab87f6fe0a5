package skink

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

func StringToRunes(str string) []rune {
	b := []byte(str)
	runes := make([]rune, 0)

	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		runes = append(runes, r)
		b = b[size:]
	}
	return runes
}

func EscapeChar(char rune) (rune, error) {
	switch char {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 'a':
		return '\a', nil
	case 't':
		return '\t', nil
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case '#':
		return '#', nil
	}
	return ' ', errors.New("invalid escape sequence")
}

// UnescapeString decodes the escape sequences in a raw string
// literal, as handed to us by the lexer. It is the only place
// string escapes are resolved.
func UnescapeString(raw string) (string, error) {
	buf := new(bytes.Buffer)
	runes := StringToRunes(raw)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			buf.WriteRune(r)
			continue
		}
		i++
		if i == len(runes) {
			return "", errors.New("trailing backslash in string literal")
		}
		dec, err := EscapeChar(runes[i])
		if err != nil {
			return "", err
		}
		buf.WriteRune(dec)
	}
	return buf.String(), nil
}
