package diag

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint computes a short content hash of source, the way the
// teacher's secret.IDFactory hashes payloads with blake2b
// (core/sdk/secret/idfactory.go) before keying a display ID. Here it
// has no secrecy purpose: it is embedded in Fault messages (it is not
// written to the --debug log) purely so two bug reports against the same source text
// are recognizably the same program.
func Fingerprint(source []byte) string {
	sum := blake2b.Sum256(source)
	return hex.EncodeToString(sum[:8])
}
