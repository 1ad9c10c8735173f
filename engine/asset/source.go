// Package asset retrieves raw asset bytes from a resource root on disk or from a deployment
// origin over HTTP. The backend is chosen once when the Source is built; everything above
// this package is written against the Source interface only.
package asset

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"unicode/utf8"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"go.uber.org/zap"
)

// SourceType identifies the byte retrieval backend.
type SourceType int

const (
	// SourceTypeLocal reads assets from a resource root directory or fs.FS.
	SourceTypeLocal SourceType = iota
	// SourceTypeRemote fetches assets over HTTP from origin/segment/.
	SourceTypeRemote
)

// DefaultPathSegment is appended to the remote origin when no segment is configured.
const DefaultPathSegment = "learn-wgpu"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source retrieves named assets. Names are slash separated and relative to the source root.
type Source interface {
	// Retrieve returns the raw bytes of the named asset.
	//
	// Parameters:
	//   - ctx: context for the retrieval; the remote backend threads it into the request
	//   - name: the slash separated asset name
	//
	// Returns:
	//   - []byte: the asset bytes
	//   - error: ErrNotFound, ErrIO or ErrNetwork (wrapped) on failure
	Retrieve(ctx context.Context, name string) ([]byte, error)

	// RetrieveText returns the named asset decoded as UTF-8 text.
	//
	// Parameters:
	//   - ctx: context for the retrieval
	//   - name: the slash separated asset name
	//
	// Returns:
	//   - string: the asset text with any leading byte order mark removed
	//   - error: the Retrieve error, or ErrIO if the bytes are not valid UTF-8
	RetrieveText(ctx context.Context, name string) (string, error)

	// Location describes where assets are read from (a directory or a base URL).
	Location() string
}

// source holds the configuration shared by both backends while they are being built.
type source struct {
	root        string
	fsys        fs.FS
	origin      string
	pathSegment string
	client      *http.Client
	logger      *zap.Logger
}

// NewSource creates the Source backend selected by sourceType.
//
// Parameters:
//   - sourceType: SourceTypeLocal or SourceTypeRemote
//   - options: SourceBuilderOption functions configuring the backend
//
// Returns:
//   - Source: the configured backend
//   - error: if the configuration is incomplete for the selected backend
func NewSource(sourceType SourceType, options ...SourceBuilderOption) (Source, error) {
	s := &source{
		pathSegment: DefaultPathSegment,
		client:      http.DefaultClient,
		logger:      zap.NewNop(),
	}
	for _, option := range options {
		option(s)
	}

	switch sourceType {
	case SourceTypeLocal:
		return newLocalSource(s)
	case SourceTypeRemote:
		return newRemoteSource(s)
	default:
		return nil, fmt.Errorf("unknown source type %d", sourceType)
	}
}

// decodeText validates UTF-8 and strips a leading BOM.
func decodeText(name string, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8 text", common.ErrIO, name)
	}
	return string(data), nil
}
