package httpclient

import (
	"net/url"
	"strconv"

	"golang.org/x/net/idna"

	"github.com/whileendless/ralnet/internal/rerr"
)

// maxHostLen and maxPathLen mirror the fixed-size hostname[254]/path[2048]
// buffers the original HttpClient stores its parsed URL into; Go strings
// don't need the buffer, but a URL that wouldn't have fit is still
// rejected rather than silently truncated.
const (
	maxHostLen = 253
	maxPathLen = 2048
)

// ParsedURL is the decomposition HttpClient.New needs: a host to resolve
// and dial, a port, a request path (with any query string folded back
// in), and the scheme that decides whether the connection is plaintext.
type ParsedURL struct {
	Scheme string
	Host   string
	Port   int
	Path   string
}

// Secure reports whether Scheme implies a TLS 1.3 connection rather than
// a bare TCP passthrough.
func (p *ParsedURL) Secure() bool {
	return p.Scheme == "https" || p.Scheme == "wss"
}

func defaultPort(scheme string) int {
	if scheme == "https" || scheme == "wss" {
		return 443
	}
	return 80
}

// ParseURL parses raw into a ParsedURL, rejecting schemes other than
// http/https/ws/wss and IDNA-normalizing the host so internationalized
// hostnames reach DNS resolution and the TLS server_name extension in
// the same ASCII form.
func ParseURL(raw string) (*ParsedURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeHttpParseUrlFailed)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, rerr.New(rerr.CodeHttpParseUrlUnsupportedScheme)
	}

	rawHost := u.Hostname()
	if rawHost == "" {
		return nil, rerr.New(rerr.CodeHttpParseUrlFailed)
	}
	host, err := idna.ToASCII(rawHost)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeHttpParseUrlFailed)
	}
	if len(host) > maxHostLen {
		return nil, rerr.New(rerr.CodeHttpParseUrlHostTooLong)
	}

	port := defaultPort(u.Scheme)
	if portStr := u.Port(); portStr != "" {
		v, err := strconv.Atoi(portStr)
		if err != nil || v < 1 || v > 65535 {
			return nil, rerr.New(rerr.CodeHttpParseUrlInvalidPort)
		}
		port = v
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path = path + "?" + u.RawQuery
	}
	if len(path) > maxPathLen {
		return nil, rerr.New(rerr.CodeHttpParseUrlFailed)
	}

	return &ParsedURL{Scheme: u.Scheme, Host: host, Port: port, Path: path}, nil
}
