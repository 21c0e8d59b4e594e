package httpclient

import (
	"net"
	"strconv"
	"time"

	"golang.org/x/net/proxy"

	"github.com/whileendless/ralnet/internal/rerr"
)

// ProxyConfig dials the target through a SOCKS5 upstream proxy instead of
// connecting to it directly.
type ProxyConfig struct {
	Host     string
	Port     uint16
	Username string
	Password string
}

func dialViaProxy(cfg *ProxyConfig, ip net.IP, port int, timeout time.Duration) (net.Conn, error) {
	var auth *proxy.Auth
	if cfg.Username != "" {
		auth = &proxy.Auth{User: cfg.Username, Password: cfg.Password}
	}
	proxyAddr := net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port)))
	dialer, err := proxy.SOCKS5("tcp", proxyAddr, auth, &net.Dialer{Timeout: timeout})
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeHttpDialViaProxyFailed)
	}
	targetAddr := net.JoinHostPort(ip.String(), strconv.Itoa(port))
	conn, err := dialer.Dial("tcp", targetAddr)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeHttpDialViaProxyFailed)
	}
	return conn, nil
}
