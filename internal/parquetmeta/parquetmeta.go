// Package parquetmeta extracts the dataset-ingest view of a Parquet file:
// schema mapped to feature types, per-column null counts and a content
// checksum. Rows are only materialized when nominal values must be observed.
package parquetmeta

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/openml-labs/runeval/internal/domain"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"
)

// ErrInvalidFormat reports a byte stream that is not a Parquet file.
var ErrInvalidFormat = errors.New("invalid parquet format")

type ColumnInfo struct {
	Index        int
	Name         string
	DataType     domain.FeatureType
	MissingCount int64
}

type Metadata struct {
	NumRows     int64
	NumColumns  int
	MD5Checksum string
	Columns     []ColumnInfo
}

// ReadMetadata parses the file footer and returns row/column counts, the
// feature type per column and null counts summed across all chunks. The MD5
// is over the full byte stream and identifies content, nothing more.
func ReadMetadata(data []byte) (Metadata, error) {
	file, err := openFile(data)
	if err != nil {
		return Metadata{}, err
	}

	fields := file.Schema().Fields()
	meta := Metadata{
		NumRows:     file.NumRows(),
		NumColumns:  len(fields),
		MD5Checksum: checksum(data),
		Columns:     make([]ColumnInfo, 0, len(fields)),
	}

	nullCounts := columnNullCounts(file.Metadata(), len(fields))
	for i, field := range fields {
		meta.Columns = append(meta.Columns, ColumnInfo{
			Index:        i,
			Name:         field.Name(),
			DataType:     featureType(field, dictionaryEncoded(file.Metadata(), i)),
			MissingCount: nullCounts[i],
		})
	}
	return meta, nil
}

// Options names the columns with special roles, matching the ARFF analyzer.
type Options struct {
	TargetNames []string
	IgnoreNames []string
	RowIDNames  []string
}

// Analyze is the ingest-time variant of ReadMetadata: it additionally
// derives nominal value lists. Booleans get the fixed ["false","true"];
// dictionary and other non-numeric columns get the sorted set of observed
// non-null values.
func Analyze(data []byte, opts Options) ([]domain.Feature, error) {
	file, err := openFile(data)
	if err != nil {
		return nil, err
	}

	fields := file.Schema().Fields()
	nullCounts := columnNullCounts(file.Metadata(), len(fields))

	features := make([]domain.Feature, 0, len(fields))
	needObserved := make([]bool, len(fields))
	for i, field := range fields {
		name := field.Name()
		dataType := featureType(field, dictionaryEncoded(file.Metadata(), i))
		feature := domain.Feature{
			Index:           i,
			Name:            name,
			DataType:        dataType,
			IsTarget:        containsName(opts.TargetNames, name),
			IsIgnore:        containsName(opts.IgnoreNames, name),
			IsRowIdentifier: containsName(opts.RowIDNames, name),
			MissingCount:    nullCounts[i],
		}
		switch {
		case field.Type().Kind() == parquet.Boolean:
			feature.NominalValues = []string{"false", "true"}
		case dataType != domain.FeatureNumeric:
			needObserved[i] = true
		}
		features = append(features, feature)
	}

	observed, err := observedValues(file, needObserved)
	if err != nil {
		return nil, err
	}
	for i := range features {
		if !needObserved[i] {
			continue
		}
		values := make([]string, 0, len(observed[i]))
		for v := range observed[i] {
			values = append(values, v)
		}
		sort.Strings(values)
		features[i].NominalValues = values
	}
	return features, nil
}

func openFile(data []byte) (*parquet.File, error) {
	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return file, nil
}

func checksum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func featureType(field parquet.Field, dictionary bool) domain.FeatureType {
	kind := field.Type().Kind()
	if kind == parquet.Boolean || dictionary {
		return domain.FeatureNominal
	}
	switch kind {
	case parquet.Int32, parquet.Int64, parquet.Int96, parquet.Float, parquet.Double:
		return domain.FeatureNumeric
	}
	if lt := field.Type().LogicalType(); lt != nil && lt.Decimal != nil {
		return domain.FeatureNumeric
	}
	return domain.FeatureString
}

func columnNullCounts(meta *format.FileMetaData, numColumns int) []int64 {
	counts := make([]int64, numColumns)
	for _, rowGroup := range meta.RowGroups {
		for i, chunk := range rowGroup.Columns {
			if i >= numColumns {
				break
			}
			counts[i] += chunk.MetaData.Statistics.NullCount
		}
	}
	return counts
}

func dictionaryEncoded(meta *format.FileMetaData, column int) bool {
	for _, rowGroup := range meta.RowGroups {
		if column >= len(rowGroup.Columns) {
			continue
		}
		for _, enc := range rowGroup.Columns[column].MetaData.Encoding {
			if enc == format.PlainDictionary || enc == format.RLEDictionary {
				return true
			}
		}
	}
	return false
}

func observedValues(file *parquet.File, need []bool) ([]map[string]struct{}, error) {
	observed := make([]map[string]struct{}, len(need))
	any := false
	for i, n := range need {
		if n {
			observed[i] = map[string]struct{}{}
			any = true
		}
	}
	if !any {
		return observed, nil
	}

	for _, rowGroup := range file.RowGroups() {
		rows := rowGroup.Rows()
		buf := make([]parquet.Row, 128)
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				for _, value := range row {
					col := value.Column()
					if col < 0 || col >= len(need) || !need[col] || value.IsNull() {
						continue
					}
					observed[col][value.String()] = struct{}{}
				}
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("%w: read rows: %v", ErrInvalidFormat, err)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("close row reader: %w", err)
		}
	}
	return observed, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
