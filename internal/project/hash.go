package project

import "crypto/sha256"

// Digest is the SHA-256 of a script or of its import closure. Build cache
// keys are Digests.
type Digest [32]byte

// Sum хеширует содержимое одного скрипта.
func Sum(content []byte) Digest {
	return sha256.Sum256(content)
}

// Combine строит хеш замыкания: H( content || dep1 || dep2 ... ).
// Порядок deps должен быть детерминированным (рёбра графа уже отсортированы).
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
