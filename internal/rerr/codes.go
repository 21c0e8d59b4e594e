package rerr

// Code enumerates the internal failure points of the crypto network core.
// Names follow <Component>_<Operation>Failed[_<Detail>], mirroring the
// original implementation's enumeration so a topmost code names exactly
// the operation that failed.
type Code int32

const (
	CodeNone Code = iota

	// Socket
	CodeSocketCreateFailedOpen
	CodeSocketCreateFailedResolve
	CodeSocketOpenFailedConnect
	CodeSocketReadFailed
	CodeSocketWriteFailed
	CodeSocketCloseFailed
	CodeSocketUnsupportedFamily

	// PRNG
	CodePrngNotSeeded
	CodePrngGetArrayFailed

	// SHA2 / HMAC
	CodeShaInvalidDigestLen
	CodeHmacInvalidKeyLen

	// ChaCha20-Poly1305
	CodeChachaInvalidKeyLen
	CodeChachaInvalidNonceLen
	CodeChachaTagMismatch
	CodePolyInvalidKeyLen

	// ECC
	CodeEccUnsupportedCurve
	CodeEccScalarSampleFailed
	CodeEccExportBufferTooSmall
	CodeEccPeerKeyInvalidPrefix
	CodeEccPeerKeyInvalidLength
	CodeEccSharedSecretIsIdentity
	CodeEccPointNotOnCurve
	CodeEccModInverseUndefined

	// TlsBuffer
	CodeBufferReadPastEnd
	CodeBufferCursorOutOfRange
	CodeBufferBackpatchOutOfRange

	// TlsCipher / key schedule
	CodeTlsHkdfExpandTooLong
	CodeTlsUnknownGroup
	CodeTlsVerifyDataMismatch
	CodeTlsSeqNumOverflow
	CodeTlsKeyScheduleNotReady

	// TlsClient handshake
	CodeTlsOpenFailedSocket
	CodeTlsHandshakeFailedClientHello
	CodeTlsHandshakeFailedServerHello
	CodeTlsHandshakeFailedEncryptedExtensions
	CodeTlsHandshakeFailedCertificate
	CodeTlsHandshakeFailedCertificateVerify
	CodeTlsHandshakeFailedFinished
	CodeTlsHandshakeOutOfOrder
	CodeTlsHandshakeUnexpectedRecordType
	CodeTlsAlertReceived
	CodeTlsDecodeFailed
	CodeTlsEncodeFailed
	CodeTlsRecordTooLarge
	CodeTlsWriteFailedNotOpen
	CodeTlsReadFailedNotOpen
	CodeTlsConnectionClosed

	// HttpClient
	CodeHttpParseUrlFailed
	CodeHttpParseUrlUnsupportedScheme
	CodeHttpParseUrlHostTooLong
	CodeHttpParseUrlInvalidPort
	CodeHttpCreateFailedResolve
	CodeHttpCreateFailedSocket
	CodeHttpSendRequestFailed
	CodeHttpReadHeadersFailedStatus
	CodeHttpReadHeadersFailedTooLarge
	CodeHttpReadHeadersFailedIO
	CodeHttpReadHeadersFailedMalformed
	CodeHttpReadBodyFailedIO
	CodeHttpDialViaProxyFailed

	// WebSocketClient
	CodeWsOpenFailedHttp
	CodeWsOpenFailedHandshakeStatus
	CodeWsFrameTooLarge
	CodeWsFrameInvalidRsv
	CodeWsFrameInvalidOpcode
	CodeWsFrameReadFailed
	CodeWsFrameWriteFailed
	CodeWsConnectionClosed
	CodeWsNotConnected
	CodeWsFragmentationOutOfOrder

	// DNS
	CodeDnsResolveFailed
	CodeDnsQueryFailedSend
	CodeDnsQueryFailedHeaders
	CodeDnsQueryFailedBody
	CodeDnsParseFailedHeader
	CodeDnsParseFailedQuestion
	CodeDnsParseFailedAnswer
	CodeDnsParseFailedCompression
	CodeDnsNoMatchingRecord
)

var codeNames = map[Code]string{
	CodeNone: "None",

	CodeSocketCreateFailedOpen:    "Socket_CreateFailed_Open",
	CodeSocketCreateFailedResolve: "Socket_CreateFailed_Resolve",
	CodeSocketOpenFailedConnect:   "Socket_OpenFailed_Connect",
	CodeSocketReadFailed:          "Socket_ReadFailed",
	CodeSocketWriteFailed:         "Socket_WriteFailed",
	CodeSocketCloseFailed:         "Socket_CloseFailed",
	CodeSocketUnsupportedFamily:   "Socket_UnsupportedFamily",

	CodePrngNotSeeded:      "Prng_NotSeeded",
	CodePrngGetArrayFailed: "Prng_GetArrayFailed",

	CodeShaInvalidDigestLen: "Sha_InvalidDigestLen",
	CodeHmacInvalidKeyLen:   "Hmac_InvalidKeyLen",

	CodeChachaInvalidKeyLen:   "Chacha_InvalidKeyLen",
	CodeChachaInvalidNonceLen: "Chacha_InvalidNonceLen",
	CodeChachaTagMismatch:     "Chacha_TagMismatch",
	CodePolyInvalidKeyLen:     "Poly_InvalidKeyLen",

	CodeEccUnsupportedCurve:      "Ecc_UnsupportedCurve",
	CodeEccScalarSampleFailed:    "Ecc_ScalarSampleFailed",
	CodeEccExportBufferTooSmall:  "Ecc_ExportBufferTooSmall",
	CodeEccPeerKeyInvalidPrefix:  "Ecc_PeerKeyInvalidPrefix",
	CodeEccPeerKeyInvalidLength:  "Ecc_PeerKeyInvalidLength",
	CodeEccSharedSecretIsIdentity: "Ecc_SharedSecretIsIdentity",
	CodeEccPointNotOnCurve:       "Ecc_PointNotOnCurve",
	CodeEccModInverseUndefined:   "Ecc_ModInverseUndefined",

	CodeBufferReadPastEnd:         "Buffer_ReadPastEnd",
	CodeBufferCursorOutOfRange:    "Buffer_CursorOutOfRange",
	CodeBufferBackpatchOutOfRange: "Buffer_BackpatchOutOfRange",

	CodeTlsHkdfExpandTooLong:  "Tls_HkdfExpandTooLong",
	CodeTlsUnknownGroup:       "Tls_UnknownGroup",
	CodeTlsVerifyDataMismatch: "Tls_VerifyDataMismatch",
	CodeTlsSeqNumOverflow:     "Tls_SeqNumOverflow",
	CodeTlsKeyScheduleNotReady: "Tls_KeyScheduleNotReady",

	CodeTlsOpenFailedSocket:                   "Tls_OpenFailed_Socket",
	CodeTlsHandshakeFailedClientHello:         "Tls_HandshakeFailed_ClientHello",
	CodeTlsHandshakeFailedServerHello:         "Tls_HandshakeFailed_ServerHello",
	CodeTlsHandshakeFailedEncryptedExtensions: "Tls_HandshakeFailed_EncryptedExtensions",
	CodeTlsHandshakeFailedCertificate:         "Tls_HandshakeFailed_Certificate",
	CodeTlsHandshakeFailedCertificateVerify:   "Tls_HandshakeFailed_CertificateVerify",
	CodeTlsHandshakeFailedFinished:            "Tls_HandshakeFailed_Finished",
	CodeTlsHandshakeOutOfOrder:                "Tls_HandshakeOutOfOrder",
	CodeTlsHandshakeUnexpectedRecordType:      "Tls_HandshakeUnexpectedRecordType",
	CodeTlsAlertReceived:                      "Tls_AlertReceived",
	CodeTlsDecodeFailed:                       "Tls_DecodeFailed",
	CodeTlsEncodeFailed:                       "Tls_EncodeFailed",
	CodeTlsRecordTooLarge:                     "Tls_RecordTooLarge",
	CodeTlsWriteFailedNotOpen:                 "Tls_WriteFailed_NotOpen",
	CodeTlsReadFailedNotOpen:                  "Tls_ReadFailed_NotOpen",
	CodeTlsConnectionClosed:                   "Tls_ConnectionClosed",

	CodeHttpParseUrlFailed:             "Http_ParseUrlFailed",
	CodeHttpParseUrlUnsupportedScheme:  "Http_ParseUrlFailed_UnsupportedScheme",
	CodeHttpParseUrlHostTooLong:        "Http_ParseUrlFailed_HostTooLong",
	CodeHttpParseUrlInvalidPort:        "Http_ParseUrlFailed_InvalidPort",
	CodeHttpCreateFailedResolve:        "Http_CreateFailed_Resolve",
	CodeHttpCreateFailedSocket:         "Http_CreateFailed_Socket",
	CodeHttpSendRequestFailed:          "Http_SendRequestFailed",
	CodeHttpReadHeadersFailedStatus:    "Http_ReadHeadersFailed_Status",
	CodeHttpReadHeadersFailedTooLarge:  "Http_ReadHeadersFailed_TooLarge",
	CodeHttpReadHeadersFailedIO:        "Http_ReadHeadersFailed_IO",
	CodeHttpReadHeadersFailedMalformed: "Http_ReadHeadersFailed_Malformed",
	CodeHttpReadBodyFailedIO:           "Http_ReadBodyFailed_IO",
	CodeHttpDialViaProxyFailed:         "Http_DialViaProxyFailed",

	CodeWsOpenFailedHttp:           "Ws_OpenFailed_Http",
	CodeWsOpenFailedHandshakeStatus: "Ws_OpenFailed_HandshakeStatus",
	CodeWsFrameTooLarge:            "Ws_FrameTooLarge",
	CodeWsFrameInvalidRsv:          "Ws_FrameInvalidRsv",
	CodeWsFrameInvalidOpcode:       "Ws_FrameInvalidOpcode",
	CodeWsFrameReadFailed:          "Ws_FrameReadFailed",
	CodeWsFrameWriteFailed:         "Ws_FrameWriteFailed",
	CodeWsConnectionClosed:         "Ws_ConnectionClosed",
	CodeWsNotConnected:             "Ws_NotConnected",
	CodeWsFragmentationOutOfOrder:  "Ws_FragmentationOutOfOrder",

	CodeDnsResolveFailed:          "Dns_ResolveFailed",
	CodeDnsQueryFailedSend:        "Dns_QueryFailed_Send",
	CodeDnsQueryFailedHeaders:     "Dns_QueryFailed_Headers",
	CodeDnsQueryFailedBody:        "Dns_QueryFailed_Body",
	CodeDnsParseFailedHeader:      "Dns_ParseFailed_Header",
	CodeDnsParseFailedQuestion:    "Dns_ParseFailed_Question",
	CodeDnsParseFailedAnswer:      "Dns_ParseFailed_Answer",
	CodeDnsParseFailedCompression: "Dns_ParseFailed_Compression",
	CodeDnsNoMatchingRecord:       "Dns_NoMatchingRecord",
}

// String renders the enumerated name, or a numeric fallback for an
// out-of-range value (never expected in practice).
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Code(" + itoa(int32(c)) + ")"
}

func itoa(v int32) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
