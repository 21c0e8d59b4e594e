package dns

import (
	"encoding/binary"
	"net"

	"github.com/whileendless/ralnet/internal/rerr"
)

// maxCompressionJumps caps how many compression pointers skipName accepts
// within one name. skipName stops at the first pointer without following
// it, so a name never comes near the cap and a circular pointer chain
// cannot loop.
const maxCompressionJumps = 16

// skipName advances past the name encoded at offset, stopping at the first
// compression pointer without following it (a pointer always terminates
// the name, per RFC 1035 §4.1.4), and returns the offset of the byte
// immediately after the name. A pointer must target a strictly earlier
// offset within bounds; anything else is rejected as malformed, since a
// forward or self-referencing pointer only appears in a hostile or corrupt
// message.
func skipName(msg []byte, offset int) (int, error) {
	pos := offset
	jumps := 0
	for {
		if pos >= len(msg) {
			return 0, rerr.New(rerr.CodeDnsParseFailedCompression)
		}
		lb := msg[pos]
		switch {
		case lb&0xc0 == 0xc0:
			if pos+1 >= len(msg) {
				return 0, rerr.New(rerr.CodeDnsParseFailedCompression)
			}
			target := int(lb&0x3f)<<8 | int(msg[pos+1])
			if target >= pos || target >= len(msg) {
				return 0, rerr.New(rerr.CodeDnsParseFailedCompression)
			}
			jumps++
			if jumps > maxCompressionJumps {
				return 0, rerr.New(rerr.CodeDnsParseFailedCompression)
			}
			if offset == pos {
				// The pointer is the name's very first byte: it ends the
				// name two bytes past where it started.
				return pos + 2, nil
			}
			// The pointer follows one or more real labels already
			// consumed; it still ends the name here, two bytes further.
			return pos + 2, nil
		case lb&0xc0 != 0:
			return 0, rerr.New(rerr.CodeDnsParseFailedCompression)
		case lb == 0:
			return pos + 1, nil
		default:
			pos++
			if pos+int(lb) > len(msg) {
				return 0, rerr.New(rerr.CodeDnsParseFailedCompression)
			}
			pos += int(lb)
		}
	}
}

// parseResponse walks a DoH response body looking for the first answer
// record matching qtype, returning its address. Names are skipped, not
// resolved to strings: nothing downstream needs the owner name's text.
func parseResponse(body []byte, qtype uint16) (net.IP, error) {
	if len(body) < 12 {
		return nil, rerr.New(rerr.CodeDnsParseFailedHeader)
	}
	qdcount := int(binary.BigEndian.Uint16(body[4:6]))
	ancount := int(binary.BigEndian.Uint16(body[6:8]))

	pos := 12
	for i := 0; i < qdcount; i++ {
		next, err := skipName(body, pos)
		if err != nil {
			return nil, err
		}
		pos = next + 4 // qtype + qclass
		if pos > len(body) {
			return nil, rerr.New(rerr.CodeDnsParseFailedQuestion)
		}
	}

	for i := 0; i < ancount; i++ {
		next, err := skipName(body, pos)
		if err != nil {
			return nil, err
		}
		pos = next
		if pos+10 > len(body) {
			return nil, rerr.New(rerr.CodeDnsParseFailedAnswer)
		}
		rtype := binary.BigEndian.Uint16(body[pos : pos+2])
		rdlength := int(binary.BigEndian.Uint16(body[pos+8 : pos+10]))
		pos += 10
		if pos+rdlength > len(body) {
			return nil, rerr.New(rerr.CodeDnsParseFailedAnswer)
		}
		rdata := body[pos : pos+rdlength]
		pos += rdlength

		if rtype != qtype {
			continue
		}
		switch qtype {
		case qTypeA:
			if len(rdata) != 4 {
				return nil, rerr.New(rerr.CodeDnsParseFailedAnswer)
			}
			return net.IP(append([]byte(nil), rdata...)), nil
		case qTypeAAAA:
			if len(rdata) != 16 {
				return nil, rerr.New(rerr.CodeDnsParseFailedAnswer)
			}
			return net.IP(append([]byte(nil), rdata...)), nil
		}
	}
	return nil, rerr.New(rerr.CodeDnsNoMatchingRecord)
}
