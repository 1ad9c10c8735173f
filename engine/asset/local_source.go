package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"go.uber.org/zap"
)

// localSource reads assets from a file system rooted at the resource root.
type localSource struct {
	root   string
	fsys   fs.FS
	logger *zap.Logger
}

var _ Source = &localSource{}

func newLocalSource(s *source) (*localSource, error) {
	fsys := s.fsys
	if fsys == nil {
		if s.root == "" {
			return nil, errors.New("local source requires a root directory or file system")
		}
		fsys = os.DirFS(s.root)
	}
	return &localSource{
		root:   common.Coalesce(s.root, "."),
		fsys:   fsys,
		logger: s.logger,
	}, nil
}

func (l *localSource) Retrieve(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrIO, name, err)
	}

	clean := path.Clean(name)
	if !fs.ValidPath(clean) {
		return nil, fmt.Errorf("%w: invalid asset name %q", common.ErrIO, name)
	}

	data, err := fs.ReadFile(l.fsys, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s in %s", common.ErrNotFound, clean, l.root)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", common.ErrIO, clean, err)
	}

	l.logger.Debug("asset read", zap.String("name", clean), zap.Int("bytes", len(data)))
	return data, nil
}

func (l *localSource) RetrieveText(ctx context.Context, name string) (string, error) {
	data, err := l.Retrieve(ctx, name)
	if err != nil {
		return "", err
	}
	return decodeText(name, data)
}

func (l *localSource) Location() string {
	return l.root
}
