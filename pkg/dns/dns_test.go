package dns

import (
	"bytes"
	"net"
	"testing"
)

func TestBuildQueryEncodesLabelsAndQType(t *testing.T) {
	q := buildQuery("example.com", qTypeAAAA)
	if q[0] != 0x12 || q[1] != 0x34 {
		t.Fatalf("id = %x %x, want 12 34", q[0], q[1])
	}
	want := []byte{7}
	want = append(want, "example"...)
	want = append(want, 3)
	want = append(want, "com"...)
	want = append(want, 0x00)
	if !bytes.Contains(q, want) {
		t.Fatalf("question section missing expected qname encoding")
	}
	if qt := uint16(q[len(q)-4])<<8 | uint16(q[len(q)-3]); qt != qTypeAAAA {
		t.Fatalf("qtype = %d, want %d", qt, qTypeAAAA)
	}
}

func buildAnswerMessage(t *testing.T, qtype uint16, rdata []byte) []byte {
	t.Helper()
	msg := []byte{
		0x12, 0x34,
		0x81, 0x80,
		0x00, 0x01,
		0x00, 0x01,
		0x00, 0x00,
		0x00, 0x00,
	}
	msg = appendQName(msg, "example.com")
	msg = append(msg, byte(qtype>>8), byte(qtype), 0x00, 0x01)

	msg = append(msg, 0xc0, 0x0c) // pointer back to the question's qname
	msg = append(msg, byte(qtype>>8), byte(qtype), 0x00, 0x01)
	msg = append(msg, 0x00, 0x00, 0x00, 0x3c) // ttl
	msg = append(msg, byte(len(rdata)>>8), byte(len(rdata)))
	msg = append(msg, rdata...)
	return msg
}

func TestParseResponseFindsARecordThroughPointer(t *testing.T) {
	msg := buildAnswerMessage(t, qTypeA, []byte{93, 184, 216, 34})
	ip, err := parseResponse(msg, qTypeA)
	if err != nil {
		t.Fatalf("parseResponse: %v", err)
	}
	if !ip.Equal(net.IPv4(93, 184, 216, 34)) {
		t.Fatalf("ip = %v", ip)
	}
}

func TestParseResponseFindsAAAARecord(t *testing.T) {
	want := net.ParseIP("2606:2800:220:1:248:1893:25c8:1946")
	msg := buildAnswerMessage(t, qTypeAAAA, want.To16())
	ip, err := parseResponse(msg, qTypeAAAA)
	if err != nil {
		t.Fatalf("parseResponse: %v", err)
	}
	if !ip.Equal(want) {
		t.Fatalf("ip = %v, want %v", ip, want)
	}
}

func TestParseResponseNoMatchingRecord(t *testing.T) {
	msg := buildAnswerMessage(t, qTypeA, []byte{1, 2, 3, 4})
	if _, err := parseResponse(msg, qTypeAAAA); err == nil {
		t.Fatalf("expected no-matching-record error")
	}
}

func TestParseResponseRejectsForwardPointer(t *testing.T) {
	msg := []byte{
		0x12, 0x34, 0x81, 0x80,
		0x00, 0x01, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00,
	}
	msg = appendQName(msg, "a")
	msg = append(msg, 0x00, 0x01, 0x00, 0x01)
	// answer name is a pointer to an offset past its own position.
	forward := len(msg) + 10
	msg = append(msg, 0xc0|byte(forward>>8), byte(forward))
	msg = append(msg, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 1, 2, 3, 4)
	if _, err := parseResponse(msg, qTypeA); err == nil {
		t.Fatalf("expected malformed-compression error for a forward pointer")
	}
}

func TestParseResponseRejectsShortHeader(t *testing.T) {
	if _, err := parseResponse([]byte{0, 1, 2}, qTypeA); err == nil {
		t.Fatalf("expected header-too-short error")
	}
}

func TestResolveLocalhostShortCircuitsWithoutQuery(t *testing.T) {
	ip4, err := Resolve("localhost", false)
	if err != nil || !ip4.Equal(net.ParseIP("127.0.0.1")) {
		t.Fatalf("Resolve(localhost, false) = %v, %v", ip4, err)
	}
	ip6, err := Resolve("localhost", true)
	if err != nil || !ip6.Equal(net.ParseIP("::1")) {
		t.Fatalf("Resolve(localhost, true) = %v, %v", ip6, err)
	}
}
