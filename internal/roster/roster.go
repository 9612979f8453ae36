// Package roster loads the user's contact-network export. Sources may be
// local files, HTTP(S) URLs, or FTP URLs; formats are CSV and XLSX, decided
// by file extension.
package roster

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/model"
)

// Loader fetches and parses roster exports.
type Loader struct {
	httpTimeout time.Duration
	ftpTimeout  time.Duration
}

// NewLoader returns a Loader with default timeouts.
func NewLoader() *Loader {
	return &Loader{
		httpTimeout: 30 * time.Second,
		ftpTimeout:  30 * time.Second,
	}
}

// Load fetches the source and parses it into contacts. Entries without an
// email address are dropped; they can never participate in domain matching.
func (l *Loader) Load(ctx context.Context, source string) ([]model.Contact, error) {
	if source == "" {
		return nil, eris.New("roster: empty source")
	}

	data, name, err := l.fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	var contacts []model.Contact
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx":
		contacts, err = parseXLSX(data)
	case ".csv", "":
		contacts, err = parseCSV(data)
	default:
		return nil, eris.Errorf("roster: unsupported format %q", path.Ext(name))
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("roster: loaded",
		zap.String("source", source),
		zap.Int("contacts", len(contacts)),
	)
	return contacts, nil
}

// fetch resolves the source to raw bytes plus a name whose extension decides
// the format.
func (l *Loader) fetch(ctx context.Context, source string) ([]byte, string, error) {
	u, err := url.Parse(source)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			data, err := l.fetchHTTP(ctx, source)
			return data, u.Path, err
		case "ftp":
			data, err := l.fetchFTP(ctx, source)
			return data, u.Path, err
		}
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, "", eris.Wrapf(err, "roster: read file %s", source)
	}
	return data, source, nil
}

func readAll(rc io.ReadCloser, label string) ([]byte, error) {
	defer rc.Close() //nolint:errcheck
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "roster: read %s", label)
	}
	return data, nil
}
