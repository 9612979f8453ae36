package roster

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

func (l *Loader) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "roster: create request")
	}

	client := &http.Client{Timeout: l.httpTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "roster: http get")
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close() //nolint:errcheck
		return nil, eris.Errorf("roster: unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	return readAll(resp.Body, rawURL)
}

func (l *Loader) fetchFTP(ctx context.Context, rawURL string) ([]byte, error) {
	host, filePath, err := parseFTPURL(rawURL)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("roster: ftp connect", zap.String("host", host), zap.String("path", filePath))

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(l.ftpTimeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, eris.Wrap(err, "roster: ftp dial")
	}
	defer conn.Quit() //nolint:errcheck

	if err := conn.Login("anonymous", "anonymous@"); err != nil {
		return nil, eris.Wrap(err, "roster: ftp login")
	}

	resp, err := conn.Retr(filePath)
	if err != nil {
		return nil, eris.Wrap(err, "roster: ftp retrieve")
	}

	data, err := io.ReadAll(resp)
	closeErr := resp.Close()
	if err != nil {
		return nil, eris.Wrap(err, "roster: ftp read")
	}
	if closeErr != nil {
		return nil, eris.Wrap(closeErr, "roster: ftp close")
	}
	return data, nil
}

// parseFTPURL extracts host (with port) and path from an FTP URL.
func parseFTPURL(rawURL string) (host string, filePath string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", eris.Wrap(err, "roster: parse ftp url")
	}
	if u.Scheme != "ftp" {
		return "", "", eris.Errorf("roster: expected ftp scheme, got %q", u.Scheme)
	}

	host = u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}

	if u.Path == "" {
		return "", "", eris.New("roster: empty path in ftp url")
	}
	return host, u.Path, nil
}
