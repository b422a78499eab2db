package core

import "context"

// TextExtractor produces plain text from raw document bytes. The contentType
// hint tells the extractor which parsing strategy to use; the extraction
// itself is opaque to the rest of the system.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, contentType string) (string, error)
}
