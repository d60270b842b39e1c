package block

import "crypto/rand"

// generateRandomData returns size bytes of cryptographically random,
// effectively incompressible data.
func generateRandomData(size int) []byte {
	data := make([]byte, size)
	rand.Read(data) //nolint:errcheck // crypto/rand.Read never fails on supported platforms
	return data
}

// generateCompressibleData returns size bytes built from a short
// repeating pattern, so LZ4 should always shrink it.
func generateCompressibleData(size int) []byte {
	data := make([]byte, size)
	pattern := []byte("abcdefghijklmnopqrstuvwxyz0123456789")
	for i := range data {
		data[i] = pattern[i%len(pattern)]
	}
	return data
}
