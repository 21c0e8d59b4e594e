// Command wsecho opens a WebSocket connection, sends one text message, and
// prints whatever comes back until the server closes the connection.
package main

import (
	"flag"
	"os"

	"github.com/whileendless/ralnet/internal/netlog"
	"github.com/whileendless/ralnet/pkg/dns"
	"github.com/whileendless/ralnet/pkg/websocket"
)

func main() {
	url := flag.String("url", "", "target URL (ws/wss)")
	message := flag.String("message", "hello", "text message to send")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := netlog.New(os.Stderr, *debug)
	if *url == "" {
		log.Errorf("missing -url")
		os.Exit(2)
	}

	c, err := websocket.New(*url, websocket.Options{Resolve: dns.Resolve})
	if err != nil {
		log.Errorf("handshake: %v", err)
		os.Exit(1)
	}
	defer c.Close()
	log.Infof("handshake complete")

	if err := c.Write(websocket.OpText, []byte(*message)); err != nil {
		log.Errorf("write: %v", err)
		os.Exit(1)
	}
	log.Infof("sent %q", *message)

	for {
		msg, err := c.Read()
		if err != nil {
			log.Warnf("closed: %v", err)
			return
		}
		log.Infof("received opcode %d, %d bytes", msg.OpCode, len(msg.Payload))
		os.Stdout.Write(msg.Payload)
		os.Stdout.Write([]byte("\n"))
	}
}
