// Package arff reads the ARFF dataset and predictions files the evaluation
// pipeline consumes. Both the dense and the sparse row syntax are supported.
package arff

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/openml-labs/runeval/internal/domain"
)

const missingSentinel = "?"

// Options names the columns with special roles during feature analysis.
type Options struct {
	TargetNames []string
	IgnoreNames []string
	RowIDNames  []string
}

// Analyze enumerates the @attribute declarations of an ARFF stream and
// counts missing values per column. Sparse rows treat absent indices as the
// default value, not as missing; only an explicit "?" is missing.
func Analyze(r io.Reader, opts Options) ([]domain.Feature, error) {
	var features []domain.Feature
	inData := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if !inData {
			switch {
			case hasPrefixFold(line, "@attribute"):
				feature := parseAttribute(line, len(features), opts)
				features = append(features, feature)
			case strings.EqualFold(line, "@data"):
				inData = true
			}
			continue
		}

		if strings.HasPrefix(line, "{") {
			countSparseMissing(line, features)
			continue
		}
		countDenseMissing(line, features)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return features, nil
}

func parseAttribute(line string, index int, opts Options) domain.Feature {
	rest := strings.TrimSpace(line[len("@attribute"):])
	name, typeSpec := splitAttributeName(rest)

	feature := domain.Feature{
		Index:           index,
		Name:            name,
		IsTarget:        containsName(opts.TargetNames, name),
		IsIgnore:        containsName(opts.IgnoreNames, name),
		IsRowIdentifier: containsName(opts.RowIDNames, name),
	}

	typeSpec = strings.TrimSpace(typeSpec)
	switch {
	case strings.HasPrefix(typeSpec, "{"):
		feature.DataType = domain.FeatureNominal
		feature.NominalValues = parseNominalValues(typeSpec)
	case strings.EqualFold(typeSpec, "numeric"),
		strings.EqualFold(typeSpec, "real"),
		strings.EqualFold(typeSpec, "integer"):
		feature.DataType = domain.FeatureNumeric
	default:
		// STRING and anything unrecognized.
		feature.DataType = domain.FeatureString
	}
	return feature
}

func splitAttributeName(rest string) (name, typeSpec string) {
	if strings.HasPrefix(rest, "'") || strings.HasPrefix(rest, "\"") {
		quote := rest[0]
		if end := strings.IndexByte(rest[1:], quote); end >= 0 {
			return rest[1 : end+1], rest[end+2:]
		}
	}
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		return rest[:i], rest[i+1:]
	}
	return rest, ""
}

func parseNominalValues(typeSpec string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(typeSpec, "{"), "}")
	parts := strings.Split(inner, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		values = append(values, Unquote(part))
	}
	return values
}

func countDenseMissing(line string, features []domain.Feature) {
	values := strings.Split(line, ",")
	for i, value := range values {
		if i >= len(features) {
			break
		}
		if Unquote(value) == missingSentinel {
			features[i].MissingCount++
		}
	}
}

func countSparseMissing(line string, features []domain.Feature) {
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "{"), "}")
	if strings.TrimSpace(inner) == "" {
		return
	}
	for _, pair := range strings.Split(inner, ",") {
		fields := strings.Fields(strings.TrimSpace(pair))
		if len(fields) < 2 {
			continue
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil || idx < 0 || idx >= len(features) {
			continue
		}
		if Unquote(strings.Join(fields[1:], " ")) == missingSentinel {
			features[idx].MissingCount++
		}
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Unquote strips one layer of matching single or double quotes.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
