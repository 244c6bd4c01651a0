// Package loader implements the formdef.Loader contract for file, fs.FS,
// and HTTP sources.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formport/pkg/formdef"
)

// Loader delegates to file, fs.FS, or HTTP strategies depending on the
// source kind.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ formdef.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options formdef.LoaderOptions) formdef.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a legacy definition from the provided source and wraps it in
// a Document.
func (l *Loader) Load(ctx context.Context, src formdef.Source) (formdef.Document, error) {
	if src == nil {
		return formdef.Document{}, errors.New("formdef loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case formdef.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case formdef.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case formdef.SourceKindURL:
		if !l.allowHTTP {
			return formdef.Document{}, errors.New("formdef loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("formdef loader: unsupported source kind")
	}
	if err != nil {
		return formdef.Document{}, err
	}

	return formdef.NewDocument(src, data)
}
