package tlsclient

import (
	"github.com/whileendless/ralnet/pkg/tlsbuffer"
	"github.com/whileendless/ralnet/pkg/tlscipher"
)

func appendExtension(dst *tlsbuffer.Buffer, extType uint16, body []byte) {
	dst.AppendU16(extType)
	dst.AppendU16(uint16(len(body)))
	dst.AppendBytes(body)
}

var signatureAlgorithms = []uint16{
	0x0403, // ecdsa_secp256r1_sha256
	0x0503, // ecdsa_secp384r1_sha384
	0x0806, // rsa_pss_rsae_sha512
	0x0805, // rsa_pss_rsae_sha384
	0x0804, // rsa_pss_rsae_sha256
	0x0401, // rsa_pkcs1_sha256
}

var supportedGroups = []tlscipher.Group{tlscipher.GroupP256, tlscipher.GroupP384}

// composeClientHello builds the handshake message (type+length header plus
// body) for a ClientHello offering TLS_CHACHA20_POLY1305_SHA256 and a key
// share for every supported group.
func composeClientHello(hostname string, cipher *tlscipher.Cipher) ([]byte, error) {
	body := tlsbuffer.New()
	body.AppendU16(legacyRecordVersion)
	body.AppendBytes(cipher.ClientRandom[:])
	body.AppendU8(0) // empty legacy session id

	body.AppendU16(2)
	body.AppendU16(cipherChaCha20Poly1305)

	body.AppendU8(1)
	body.AppendU8(0) // null compression

	extensions := tlsbuffer.New()

	sniList := tlsbuffer.New()
	sniList.AppendU8(0) // host_name entry type
	sniList.AppendU16(uint16(len(hostname)))
	sniList.AppendBytes([]byte(hostname))
	sni := tlsbuffer.New()
	sni.AppendU16(uint16(sniList.Len()))
	sni.AppendBytes(sniList.Bytes())
	appendExtension(extensions, extServerName, sni.Bytes())

	groups := tlsbuffer.New()
	groups.AppendU16(uint16(2 * len(supportedGroups)))
	for _, g := range supportedGroups {
		groups.AppendU16(uint16(g))
	}
	appendExtension(extensions, extSupportedGroups, groups.Bytes())

	versions := tlsbuffer.New()
	versions.AppendU8(2)
	versions.AppendU16(tls13Version)
	appendExtension(extensions, extSupportedVersions, versions.Bytes())

	sigAlgsList := tlsbuffer.New()
	for _, a := range signatureAlgorithms {
		sigAlgsList.AppendU16(a)
	}
	sigAlgs := tlsbuffer.New()
	sigAlgs.AppendU16(uint16(sigAlgsList.Len()))
	sigAlgs.AppendBytes(sigAlgsList.Bytes())
	appendExtension(extensions, extSignatureAlgorithms, sigAlgs.Bytes())

	keyShareList := tlsbuffer.New()
	for _, g := range supportedGroups {
		pub, err := cipher.PublicKeyShare(g)
		if err != nil {
			return nil, err
		}
		keyShareList.AppendU16(uint16(g))
		keyShareList.AppendU16(uint16(len(pub)))
		keyShareList.AppendBytes(pub)
	}
	keyShare := tlsbuffer.New()
	keyShare.AppendU16(uint16(keyShareList.Len()))
	keyShare.AppendBytes(keyShareList.Bytes())
	appendExtension(extensions, extKeyShare, keyShare.Bytes())

	body.AppendU16(uint16(extensions.Len()))
	body.AppendBytes(extensions.Bytes())

	msg := tlsbuffer.New()
	msg.AppendU8(msgClientHello)
	msg.AppendU24(uint32(body.Len()))
	msg.AppendBytes(body.Bytes())
	return msg.Bytes(), nil
}
