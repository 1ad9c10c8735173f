package asset

import (
	"context"
	"io"
	"strings"
)

// TextReader returns assets as text. It is the entry point the OBJ and MTL parsers read through.
type TextReader struct {
	Source Source
}

// Read returns the named asset as a string.
func (t TextReader) Read(ctx context.Context, name string) (string, error) {
	return t.Source.RetrieveText(ctx, name)
}

// Open returns the named asset as a reader over its text.
func (t TextReader) Open(ctx context.Context, name string) (io.Reader, error) {
	text, err := t.Source.RetrieveText(ctx, name)
	if err != nil {
		return nil, err
	}
	return strings.NewReader(text), nil
}
