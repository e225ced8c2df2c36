package splits

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/openml-labs/runeval/internal/domain"
)

// ParseARFF reads a splits file whose data columns are, in order,
// kind, row_id, repeat, fold. Comment lines and rows that do not parse are
// skipped; the file never fails as a whole.
func ParseARFF(text string) []domain.SplitEntry {
	var out []domain.SplitEntry
	inData := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if !inData {
			if strings.EqualFold(line, "@data") {
				inData = true
			}
			continue
		}

		cols := strings.Split(line, ",")
		if len(cols) < 4 {
			continue
		}
		kind := strings.ToUpper(unquote(cols[0]))
		rowID, err := strconv.ParseInt(unquote(cols[1]), 10, 64)
		if err != nil {
			continue
		}
		repeat, err := strconv.Atoi(unquote(cols[2]))
		if err != nil {
			continue
		}
		fold, err := strconv.Atoi(unquote(cols[3]))
		if err != nil {
			continue
		}
		out = append(out, domain.SplitEntry{
			Repeat: repeat,
			Fold:   fold,
			RowID:  rowID,
			Kind:   domain.SplitKind(kind),
		})
	}
	return out
}

// RenderARFF emits the canonical splits file body for a task, in the same
// column order ParseARFF expects.
func RenderARFF(entries []domain.SplitEntry) string {
	var b strings.Builder
	b.WriteString("@relation splits\n")
	b.WriteString("@attribute type {TRAIN,TEST}\n")
	b.WriteString("@attribute rowid integer\n")
	b.WriteString("@attribute repeat integer\n")
	b.WriteString("@attribute fold integer\n")
	b.WriteString("@data\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s,%d,%d,%d\n", entry.Kind, entry.RowID, entry.Repeat, entry.Fold)
	}
	return b.String()
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
