package zonetext

import (
	"bufio"
	"strings"
)

// knownTypes are the record type keywords that end the owner/ttl/class prefix of a line.
var knownTypes = map[string]bool{
	"A": true, "AAAA": true, "AFSDB": true, "APL": true, "CAA": true, "CDNSKEY": true, "CDS": true,
	"CERT": true, "CNAME": true, "DHCID": true, "DNAME": true, "DNSKEY": true, "DS": true,
	"HINFO": true, "HTTPS": true, "IPSECKEY": true, "KEY": true, "KX": true, "LOC": true, "MX": true,
	"NAPTR": true, "NS": true, "NSEC": true, "NSEC3": true, "NSEC3PARAM": true, "OPENPGPKEY": true,
	"PTR": true, "RP": true, "RRSIG": true, "SMIMEA": true, "SOA": true, "SPF": true, "SRV": true,
	"SSHFP": true, "SVCB": true, "TLSA": true, "TXT": true, "URI": true, "ZONEMD": true,
}

// knownClasses are the record class keywords.
var knownClasses = map[string]bool{"IN": true, "CH": true, "CS": true, "HS": true}

// IsType reports whether tok is a known record type keyword.
func IsType(tok string) bool {
	return knownTypes[strings.ToUpper(tok)]
}

// IsClass reports whether tok is a record class keyword.
func IsClass(tok string) bool {
	return knownClasses[strings.ToUpper(tok)]
}

// LineShape is the classification of a record line: owner [ttl] [class] type rdata.
type LineShape struct {
	Owner     string // owner token as written, empty when Inherited
	Inherited bool   // line started with blank space and reuses the previous owner
	TTL       string // TTL token as written
	HasTTL    bool
	Class     string
	Type      string // upper case
	Rdata     string   // verbatim record data
	Tokens    []string // record data tokens, quoted strings kept whole
}

type token struct {
	text       string
	start, end int
}

// tokenize splits a comment-free line on blank space, keeping quoted strings (with their quotes)
// as single tokens.
func tokenize(line string) []token {
	var (
		out     []token
		start   = -1
		inQuote bool
		escaped bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true

			if start < 0 {
				start = i
			}
		case c == '"':
			inQuote = !inQuote

			if start < 0 {
				start = i
			}
		case (c == ' ' || c == '\t') && !inQuote:
			if start >= 0 {
				out = append(out, token{text: line[start:i], start: start, end: i})
				start = -1
			}
		default:
			if start < 0 {
				start = i
			}
		}
	}

	if start >= 0 {
		out = append(out, token{text: line[start:], start: start, end: len(line)})
	}

	return out
}

// Shape classifies a logical record line. ok is false for lines that are not records.
func Shape(line string) (LineShape, bool) {
	var s LineShape

	toks := tokenize(line)
	if len(toks) == 0 {
		return s, false
	}

	i := 0
	if line[0] == ' ' || line[0] == '\t' {
		s.Inherited = true
	} else {
		s.Owner = toks[0].text
		i = 1
	}

	// greedy prefix scan: at most one ttl and one class, in either order, before the type
	for ; i < len(toks); i++ {
		tok := toks[i].text

		switch {
		case IsType(tok):
			s.Type = strings.ToUpper(tok)
		case IsClass(tok) && s.Class == "":
			s.Class = strings.ToUpper(tok)
			continue
		case !s.HasTTL && IsTTL(tok) && i+1 < len(toks) && (IsClass(toks[i+1].text) || IsType(toks[i+1].text)):
			s.TTL = tok
			s.HasTTL = true

			continue
		default:
			return LineShape{}, false
		}

		break
	}

	if s.Type == "" {
		return LineShape{}, false
	}

	if i+1 < len(toks) {
		s.Rdata = strings.TrimSpace(line[toks[i+1].start:])
		for _, t := range toks[i+1:] {
			s.Tokens = append(s.Tokens, t.text)
		}
	}

	return s, true
}

// logicalLine is a record or directive line with parenthesised continuations joined.
type logicalLine struct {
	text string
	num  int // 1-based line number of the first physical line
}

// stripComment removes a ';' comment outside quoted strings.
func stripComment(line string) string {
	inQuote, escaped := false, false

	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case c == ';' && !inQuote:
			return line[:i]
		}
	}

	return line
}

// dropParens removes grouping parentheses outside quotes and returns the depth change.
func dropParens(line string) (string, int) {
	var (
		b       strings.Builder
		depth   int
		inQuote bool
		escaped bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case c == '(' && !inQuote:
			depth++
			b.WriteByte(' ')

			continue
		case c == ')' && !inQuote:
			depth--
			b.WriteByte(' ')

			continue
		}

		b.WriteByte(c)
	}

	return b.String(), depth
}

// logicalLines splits text into logical lines, dropping blank and comment-only lines.
func logicalLines(text string) []logicalLine {
	var (
		out     []logicalLine
		buf     strings.Builder
		depth   int
		first   int
		num     int
		scanner = bufio.NewScanner(strings.NewReader(text))
	)

	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) //nolint:mnd

	for scanner.Scan() {
		num++
		raw := strings.TrimRight(stripComment(scanner.Text()), " \t\r")

		if strings.TrimSpace(raw) == "" {
			continue
		}

		line, delta := dropParens(raw)

		if depth == 0 {
			first = num
			buf.WriteString(strings.TrimRight(line, " \t"))
		} else {
			buf.WriteByte(' ')
			buf.WriteString(strings.TrimSpace(line))
		}

		depth += delta
		if depth > 0 {
			continue
		}

		depth = 0
		out = append(out, logicalLine{text: buf.String(), num: first})
		buf.Reset()
	}

	// unbalanced parentheses: keep what was collected
	if buf.Len() > 0 {
		out = append(out, logicalLine{text: buf.String(), num: first})
	}

	return out
}
