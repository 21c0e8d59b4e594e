package tlsclient

// Record content types (RFC 8446 §5.1).
const (
	contentChangeCipherSpec = 0x14
	contentAlert            = 0x15
	contentHandshake        = 0x16
	contentApplicationData  = 0x17
)

// Handshake message types (RFC 8446 §4).
const (
	msgClientHello        = 0x01
	msgServerHello        = 0x02
	msgEncryptedExtensions = 0x08
	msgCertificate        = 0x0b
	msgCertificateVerify  = 0x0f
	msgFinished           = 0x14
)

// Extension types (RFC 8446 §4.2).
const (
	extServerName         = 0x0000
	extSupportedGroups    = 0x000a
	extSignatureAlgorithms = 0x000d
	extKeyShare           = 0x0033
	extSupportedVersions  = 0x002b
)

const (
	legacyRecordVersion    = 0x0303
	tls13Version           = 0x0304
	cipherChaCha20Poly1305 = 0x1303

	maxRecordPlaintext  = 16 * 1024
	maxRecordCiphertext = maxRecordPlaintext + 256
)

// handshakeState is the strict linear sequence the client advances
// through; any message out of order aborts the connection.
type handshakeState int

const (
	stateClientHelloSent handshakeState = iota
	stateServerHelloReceived
	stateCCSReceived
	stateEncryptedExtensionsReceived
	stateCertificateReceived
	stateCertificateVerifyReceived
	stateOpen
)
