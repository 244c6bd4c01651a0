package layout

import (
	"strconv"
	"strings"
)

// SentinelRow is substituted when a position token carries no parsable row.
// It sorts after any practical hand-authored row number, so affected
// controls land at the end of their fragment once rows are compacted.
const SentinelRow = 999

// Tokens with more column letters than this overflow any sane grid and are
// treated as malformed. The cap also keeps stray words in hand-edited
// exports ("left", "header") from decoding into absurd column indices.
const maxColumnLetters = 3

// Position locates a control inside a fragment's implicit grid. Row starts
// at 1, Column at 0.
type Position struct {
	Row    int
	Column int
}

// Before reports whether p precedes q in row-major order.
func (p Position) Before(q Position) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Column < q.Column
}

// Token renders the canonical token for the position: row digits followed by
// column letters in base-26 with A as zero. ParsePosition inverts it for any
// canonical position.
func (p Position) Token() string {
	return strconv.Itoa(p.Row) + columnLetters(p.Column)
}

// ParsePosition decodes a grid token of the form "<digits><letters>". The
// leading digit run is the row; the trailing letter run is the column in
// base-26 with A as zero, defaulting to column 0 when absent. A token whose
// row is missing or unparsable, or that carries anything besides the two
// runs, is malformed: the row becomes SentinelRow, ok is false, and any
// clean trailing letter run is still honoured for the column.
func ParsePosition(token string) (Position, bool) {
	s := strings.TrimSpace(token)

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	j := len(s)
	for j > i && isColumnLetter(s[j-1]) {
		j--
	}

	column, colOK := columnFromLetters(s[j:])

	ok := i > 0 && j == i && colOK
	row := 0
	if ok {
		n, err := strconv.Atoi(s[:i])
		if err != nil || n < 1 {
			ok = false
		} else {
			row = n
		}
	}
	if !ok {
		row = SentinelRow
	}
	return Position{Row: row, Column: column}, ok
}

func isColumnLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func columnFromLetters(letters string) (int, bool) {
	if letters == "" {
		return 0, true
	}
	if len(letters) > maxColumnLetters {
		return 0, false
	}
	col := 0
	for k := 0; k < len(letters); k++ {
		c := letters[k]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		col = col*26 + int(c-'A')
	}
	return col, true
}

func columnLetters(col int) string {
	if col <= 0 {
		return "A"
	}
	var buf [16]byte
	i := len(buf)
	for col > 0 {
		i--
		buf[i] = byte('A' + col%26)
		col /= 26
	}
	return string(buf[i:])
}
