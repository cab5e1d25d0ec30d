// Package serving exposes the four hooks the hosting runtime drives (load the
// model, parse the request, transform the batch, serialize the result) and an
// HTTP server that wires them behind /invocations.
package serving

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"strings"

	"featuremill/selection"
	"featuremill/tabular"
)

const (
	ContentTypeCSV  = "text/csv"
	ContentTypeJSON = "application/json"
)

// ModelFn deserializes the fitted model from a directory.
func ModelFn(dir string) (*selection.Model, error) {
	return selection.Load(dir)
}

// InputFn parses a request body into a dataset. Only CSV input is accepted;
// the charset parameter is honored. An empty content type means CSV.
func InputFn(body io.Reader, contentType string, schema tabular.Schema) (*tabular.Dataset, error) {
	if contentType == "" {
		contentType = ContentTypeCSV
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, &UnsupportedMediaTypeError{ContentType: contentType}
	}
	if mediaType != ContentTypeCSV {
		return nil, &UnsupportedMediaTypeError{ContentType: mediaType}
	}
	reader, err := tabular.CharsetReader(body, params["charset"])
	if err != nil {
		return nil, &UnsupportedMediaTypeError{ContentType: contentType}
	}
	return tabular.ReadCSV(reader, schema)
}

// PredictFn applies the fitted transform to the parsed batch.
func PredictFn(ds *tabular.Dataset, model *selection.Model) ([][]float64, error) {
	return model.Transform(ds)
}

// OutputFn serializes transformed rows per the accept header: CSV, or a JSON
// envelope of instances. Empty and wildcard accepts default to CSV.
func OutputFn(rows [][]float64, accept string) ([]byte, string, error) {
	switch resolveAccept(accept) {
	case ContentTypeCSV:
		var buf bytes.Buffer
		if err := tabular.WriteCSV(&buf, rows); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), ContentTypeCSV, nil
	case ContentTypeJSON:
		envelope := struct {
			Instances []struct {
				Features []float64 `json:"features"`
			} `json:"instances"`
		}{}
		for _, row := range rows {
			envelope.Instances = append(envelope.Instances, struct {
				Features []float64 `json:"features"`
			}{Features: row})
		}
		payload, err := json.Marshal(envelope)
		if err != nil {
			return nil, "", err
		}
		return payload, ContentTypeJSON, nil
	default:
		return nil, "", &UnsupportedMediaTypeError{ContentType: accept}
	}
}

// resolveAccept picks the first supported media type from a comma-separated
// accept header. Returns "" when nothing matches.
func resolveAccept(accept string) string {
	if strings.TrimSpace(accept) == "" {
		return ContentTypeCSV
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case "*/*", ContentTypeCSV:
			return ContentTypeCSV
		case ContentTypeJSON:
			return ContentTypeJSON
		}
	}
	return ""
}
