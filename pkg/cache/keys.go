package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys of the form prefix + kind + ":" + digest. The
// prefix isolates deployments that share one Redis database.
type Keyer struct {
	prefix string
}

// NewKeyer returns a Keyer whose keys all start with prefix.
func NewKeyer(prefix string) Keyer {
	return Keyer{prefix: prefix}
}

// ShortKey is the key for the short form of longURL at a shortener endpoint.
func (k Keyer) ShortKey(endpoint, longURL string) string {
	return k.key("short", []byte(endpoint), []byte(longURL))
}

// RenderKey is the key for a rendered artifact of an encoded bouquet.
func (k Keyer) RenderKey(payload string, opts RenderKeyOpts) string {
	o, _ := json.Marshal(opts)
	return k.key("render", []byte(payload), o)
}

func (k Keyer) key(kind string, parts ...[]byte) string {
	return k.prefix + kind + ":" + Digest(parts...)
}

// Digest returns the hex SHA-256 over parts. Each part is length-prefixed,
// so ("ab", "c") and ("a", "bc") differ.
func Digest(parts ...[]byte) string {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
