package arff

import (
	"bufio"
	"bytes"
	"strings"
)

// LoadGroundTruth parses a dense ARFF dataset and returns the target column
// value for each requested row id, in request order. Row ids address data
// rows by position; absent rows yield an empty string. The found flag is
// false when the target column does not exist, in which case the result is
// empty and the caller should warn.
func LoadGroundTruth(dataset []byte, target string, rowIDs []int64) (values []string, found bool) {
	targetIdx := -1
	attrCount := 0
	var rows []string

	inData := false
	scanner := bufio.NewScanner(bytes.NewReader(dataset))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if !inData {
			switch {
			case hasPrefixFold(line, "@attribute"):
				name, _ := splitAttributeName(strings.TrimSpace(line[len("@attribute"):]))
				if Unquote(name) == target {
					targetIdx = attrCount
				}
				attrCount++
			case strings.EqualFold(line, "@data"):
				inData = true
			}
			continue
		}
		rows = append(rows, line)
	}

	if targetIdx < 0 {
		return nil, false
	}

	values = make([]string, 0, len(rowIDs))
	for _, rowID := range rowIDs {
		if rowID < 0 || rowID >= int64(len(rows)) {
			values = append(values, "")
			continue
		}
		cols := strings.Split(rows[rowID], ",")
		if targetIdx >= len(cols) {
			values = append(values, "")
			continue
		}
		values = append(values, Unquote(cols[targetIdx]))
	}
	return values, true
}
