package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// CharsetReader wraps r with a decoder for the given charset. Data providers
// in this region commonly export GBK-encoded CSV, so both GBK and GB2312 are
// accepted alongside UTF-8.
func CharsetReader(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8", "us-ascii":
		return r, nil
	case "gbk":
		return transform.NewReader(r, simplifiedchinese.GBK.NewDecoder()), nil
	case "gb2312":
		return transform.NewReader(r, simplifiedchinese.HZGB2312.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
}

// ReadCSV parses CSV rows into a dataset. A leading header row is skipped when
// none of its fields parse as numbers. Rows must be uniformly N or N+1 wide.
func ReadCSV(r io.Reader, schema Schema) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &DataError{Reason: "malformed csv: " + err.Error()}
	}
	if len(records) == 0 {
		return nil, &DataError{Reason: "empty csv body"}
	}
	if isHeader(records[0]) {
		records = records[1:]
		if len(records) == 0 {
			return nil, &DataError{Reason: "csv has a header but no data rows"}
		}
	}

	rows := make([][]float64, len(records))
	for i, record := range records {
		row := make([]float64, len(record))
		for j, field := range record {
			value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, &DataError{Reason: fmt.Sprintf("row %d column %d: %v", i, j, err)}
			}
			row[j] = value
		}
		rows[i] = row
	}

	return FromRows(schema, rows)
}

// WriteCSV encodes numeric rows as CSV without a header.
func WriteCSV(w io.Writer, rows [][]float64) error {
	writer := csv.NewWriter(w)
	record := []string(nil)
	for _, row := range rows {
		record = record[:0]
		for _, value := range row {
			record = append(record, strconv.FormatFloat(value, 'g', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func isHeader(record []string) bool {
	for _, field := range record {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err == nil {
			return false
		}
	}
	return true
}
