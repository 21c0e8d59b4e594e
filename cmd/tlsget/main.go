// Command tlsget fetches a URL over this module's own HTTP/1.1 and TLS 1.3
// client stack, logs the status check and Content-Length to stderr, and
// writes the response body to stdout.
package main

import (
	"flag"
	"os"

	"github.com/whileendless/ralnet/internal/netlog"
	"github.com/whileendless/ralnet/pkg/dns"
	"github.com/whileendless/ralnet/pkg/httpclient"
)

func main() {
	url := flag.String("url", "", "target URL (http/https)")
	post := flag.String("post", "", "body to POST instead of sending a GET")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := netlog.New(os.Stderr, *debug)
	if *url == "" {
		log.Errorf("missing -url")
		os.Exit(2)
	}

	c, err := httpclient.New(*url, httpclient.Options{Resolve: dns.Resolve})
	if err != nil {
		log.Errorf("connect: %v", err)
		os.Exit(1)
	}
	defer c.Close()
	log.Infof("connected to %s", c.URL().Host)

	if *post != "" {
		err = c.SendPost([]byte(*post))
	} else {
		err = c.SendGet()
	}
	if err != nil {
		log.Errorf("send request: %v", err)
		os.Exit(1)
	}

	contentLength, err := c.ReadResponseHeaders(200)
	if err != nil {
		log.Errorf("read headers: %v", err)
		os.Exit(1)
	}
	log.Infof("status 200, content-length %d", contentLength)

	body, err := c.ReadBody(contentLength)
	if err != nil {
		log.Errorf("read body: %v", err)
		os.Exit(1)
	}
	log.Infof("read %d body bytes", len(body))
	os.Stdout.Write(body)
}
