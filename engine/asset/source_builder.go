package asset

import (
	"io/fs"
	"net/http"

	"go.uber.org/zap"
)

// SourceBuilderOption is a functional option applied to a Source during construction via NewSource.
type SourceBuilderOption func(*source)

// WithRoot sets the resource root directory of the local source.
//
// Parameters:
//   - root: the directory asset names are resolved against
//
// Returns:
//   - SourceBuilderOption: a function that applies the root option to a source
func WithRoot(root string) SourceBuilderOption {
	return func(s *source) {
		s.root = root
	}
}

// WithFS makes the local source read from fsys (for example an embed.FS) instead of the
// operating system. The root, when also set, is used only for Location.
//
// Parameters:
//   - fsys: the file system to read from
//
// Returns:
//   - SourceBuilderOption: a function that applies the file system option to a source
func WithFS(fsys fs.FS) SourceBuilderOption {
	return func(s *source) {
		s.fsys = fsys
	}
}

// WithOrigin sets the deployment origin of the remote source, e.g. "https://example.com".
//
// Parameters:
//   - origin: scheme and host, optionally followed by a path
//
// Returns:
//   - SourceBuilderOption: a function that applies the origin option to a source
func WithOrigin(origin string) SourceBuilderOption {
	return func(s *source) {
		s.origin = origin
	}
}

// WithPathSegment sets the fixed path segment appended to the remote origin.
// An empty segment is allowed and means assets live directly under the origin.
//
// Parameters:
//   - segment: the path segment
//
// Returns:
//   - SourceBuilderOption: a function that applies the path segment option to a source
func WithPathSegment(segment string) SourceBuilderOption {
	return func(s *source) {
		s.pathSegment = segment
	}
}

// WithHTTPClient sets the client used by the remote source.
//
// Parameters:
//   - client: the HTTP client, nil keeps http.DefaultClient
//
// Returns:
//   - SourceBuilderOption: a function that applies the client option to a source
func WithHTTPClient(client *http.Client) SourceBuilderOption {
	return func(s *source) {
		if client != nil {
			s.client = client
		}
	}
}

// WithLogger sets the logger used for retrieval debug output.
//
// Parameters:
//   - logger: the zap logger, nil keeps the no-op logger
//
// Returns:
//   - SourceBuilderOption: a function that applies the logger option to a source
func WithLogger(logger *zap.Logger) SourceBuilderOption {
	return func(s *source) {
		if logger != nil {
			s.logger = logger
		}
	}
}
