// Package djb2 implements Dan Bernstein's djb2 string hash. Hash is the
// case-sensitive form httpclient uses as a quick pre-check before comparing
// a header line against "Content-Length: " byte for byte; HashLower is the
// case-insensitive form, which hashes every case variant of an ASCII
// string to the same value.
package djb2

// Hash computes the classic djb2 hash (h = h*33 + c, seed 5381).
func Hash(s []byte) uint32 {
	var h uint32 = 5381
	for _, c := range s {
		h = h*33 + uint32(c)
	}
	return h
}

// HashLower computes djb2 over the ASCII-lowercased bytes of s, so that
// HashLower(s) == HashLower(Lower(s)) == Hash(lowercased bytes) for any
// case variant of the same ASCII string.
func HashLower(s []byte) uint32 {
	var h uint32 = 5381
	for _, c := range s {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		h = h*33 + uint32(c)
	}
	return h
}
