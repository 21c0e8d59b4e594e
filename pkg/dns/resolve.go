package dns

import (
	"net"
	"time"

	"github.com/whileendless/ralnet/internal/rerr"
	"github.com/whileendless/ralnet/pkg/httpclient"
)

const dohTimeout = 10 * time.Second

var dohHeaders = map[string]string{
	"Content-Type": "application/dns-message",
	"Accept":       "application/dns-message",
}

// Resolve answers httpclient.Resolver: it resolves host to an address,
// trying AAAA when wantIPv6 is set and A otherwise. localhost is answered
// locally, without a query, since it never has a public DNS entry.
func Resolve(host string, wantIPv6 bool) (net.IP, error) {
	if host == "localhost" {
		if wantIPv6 {
			return net.ParseIP("::1"), nil
		}
		return net.ParseIP("127.0.0.1"), nil
	}
	qtype := qTypeA
	if wantIPv6 {
		qtype = qTypeAAAA
	}
	return CloudflareResolve(host, qtype)
}

// CloudflareResolve queries Cloudflare's public DoH endpoint directly by
// IP, so resolving it never recurses back into this package.
func CloudflareResolve(host string, qtype uint16) (net.IP, error) {
	return queryDoH("https://1.1.1.1/dns-query", nil, host, qtype)
}

// GoogleResolve queries Google's public DoH endpoint. dns.google isn't an
// IP literal, so the connection is pinned to a known address instead of
// being resolved, for the same reason CloudflareResolve uses a literal.
func GoogleResolve(host string, qtype uint16) (net.IP, error) {
	return queryDoH("https://dns.google/dns-query", net.ParseIP("8.8.8.8"), host, qtype)
}

func queryDoH(endpoint string, connectIP net.IP, host string, qtype uint16) (net.IP, error) {
	query := buildQuery(host, qtype)

	hc, err := httpclient.New(endpoint, httpclient.Options{
		ConnectIP:   connectIP,
		ConnTimeout: dohTimeout,
	})
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeDnsQueryFailedSend)
	}
	defer hc.Close()

	if err := hc.SendPostWithHeaders(query, dohHeaders); err != nil {
		return nil, rerr.Wrap(err, rerr.CodeDnsQueryFailedSend)
	}

	contentLength, err := hc.ReadResponseHeaders(200)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeDnsQueryFailedHeaders)
	}
	body, err := hc.ReadBody(contentLength)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeDnsQueryFailedBody)
	}
	return parseResponse(body, qtype)
}
