package stream

import "strings"

// Framer splits decoded text into newline-terminated records. An
// incomplete trailing line is kept until a later Push completes it.
type Framer struct {
	partial strings.Builder
}

// Push appends text and returns every record it completes. Empty records
// are skipped.
func (f *Framer) Push(text string) []string {
	var records []string
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			f.partial.WriteString(text)
			return records
		}

		line := text[:i]
		if f.partial.Len() > 0 {
			f.partial.WriteString(line)
			line = f.partial.String()
			f.partial.Reset()
		}
		if rec := trimRecord(line); rec != "" {
			records = append(records, rec)
		}
		text = text[i+1:]
	}
}

// Flush returns the buffered trailing record, if any, and clears it.
func (f *Framer) Flush() string {
	rec := trimRecord(f.partial.String())
	f.partial.Reset()
	return rec
}

// Reset discards any buffered partial record.
func (f *Framer) Reset() {
	f.partial.Reset()
}

func trimRecord(line string) string {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return ""
	}
	return line
}
