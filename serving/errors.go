package serving

import "fmt"

// UnsupportedMediaTypeError reports a request content type or accept value
// the serving hooks cannot satisfy.
type UnsupportedMediaTypeError struct {
	ContentType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("unsupported media type %q", e.ContentType)
}
