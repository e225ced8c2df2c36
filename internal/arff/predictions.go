package arff

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/openml-labs/runeval/internal/domain"
)

// ParsePredictions reads an uploaded predictions file. Data columns are
// row_id, fold, repeat, prediction, then optional confidence columns; the
// confidence, when present, is the fifth column. Rows that do not parse are
// dropped and counted so the caller can surface a warning instead of failing
// the whole upload.
func ParsePredictions(text string) (preds []domain.Prediction, skipped int) {
	inData := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
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
		if len(cols) == 0 {
			continue
		}
		rowID, err := strconv.ParseInt(Unquote(cols[0]), 10, 64)
		if err != nil {
			skipped++
			continue
		}

		labelCol := len(cols) - 1
		if len(cols) > 3 {
			labelCol = 3
		}
		pred := domain.Prediction{
			RowID: rowID,
			Label: Unquote(cols[labelCol]),
		}

		if len(cols) > 4 {
			conf, err := strconv.ParseFloat(Unquote(cols[4]), 64)
			if err != nil {
				skipped++
				continue
			}
			pred.Confidence = &conf
		}
		preds = append(preds, pred)
	}
	return preds, skipped
}
