package tlsclient

import (
	"github.com/whileendless/ralnet/internal/rerr"
	"github.com/whileendless/ralnet/pkg/tlsbuffer"
	"github.com/whileendless/ralnet/pkg/tlscipher"
)

type serverHello struct {
	random    [32]byte
	group     tlscipher.Group
	peerShare []byte
}

// parseServerHello extracts the server random, negotiated cipher suite
// check, and the single key_share entry from a ServerHello body.
func parseServerHello(body []byte) (*serverHello, error) {
	r := tlsbuffer.NewFromBytes(body)

	if _, err := r.ReadU16(); err != nil {
		return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}

	randBytes, err := r.ReadSlice(32)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}
	sh := &serverHello{}
	copy(sh.random[:], randBytes)

	sidLen, err := r.ReadU8()
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}
	if _, err := r.ReadSlice(int(sidLen)); err != nil {
		return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}

	suite, err := r.ReadU16()
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}
	if suite != cipherChaCha20Poly1305 {
		return nil, rerr.New(rerr.CodeTlsHandshakeFailedServerHello)
	}

	if _, err := r.ReadU8(); err != nil { // legacy compression method
		return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}

	extTotal, err := r.ReadU16()
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}
	extBytes, err := r.ReadSlice(int(extTotal))
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
	}

	er := tlsbuffer.NewFromBytes(extBytes)
	found := false
	for er.Remaining() > 0 {
		extType, err := er.ReadU16()
		if err != nil {
			return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
		}
		extLen, err := er.ReadU16()
		if err != nil {
			return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
		}
		data, err := er.ReadSlice(int(extLen))
		if err != nil {
			return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
		}
		if extType != extKeyShare {
			continue
		}
		dr := tlsbuffer.NewFromBytes(data)
		g, err := dr.ReadU16()
		if err != nil {
			return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
		}
		klen, err := dr.ReadU16()
		if err != nil {
			return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
		}
		key, err := dr.ReadSlice(int(klen))
		if err != nil {
			return nil, rerr.Wrap(err, rerr.CodeTlsHandshakeFailedServerHello)
		}
		sh.group = tlscipher.Group(g)
		sh.peerShare = append([]byte{}, key...)
		found = true
	}
	if !found {
		return nil, rerr.New(rerr.CodeTlsHandshakeFailedServerHello)
	}
	return sh, nil
}
