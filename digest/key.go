// SPDX-License-Identifier: MIT

package digest

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Key is a 32-byte BLAKE3 fingerprint of a view's logical content, suitable
// as a cache key or an equality key across independently built views.
type Key [32]byte

// keyDomain separates view keys from any other BLAKE3 use of the same bytes.
// Changing it invalidates every stored Key.
var keyDomain = [32]byte{
	'd', 'a', 't', 'a', 'v', 'i', 'e', 'w', '.', 'k', 'e', 'y', 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// NewBlake3 returns an unkeyed BLAKE3 hasher usable as a Sink with Sum/Hex.
func NewBlake3() *blake3.Hasher {
	return blake3.New()
}

// KeyOf computes the keyed BLAKE3 fingerprint of d.
func KeyOf(d Digester) (Key, error) {
	h, err := blake3.NewKeyed(keyDomain[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	if err := d.Digest(h); err != nil {
		return Key{}, err
	}
	var k Key
	copy(k[:], h.Sum(nil))
	return k, nil
}

// String renders the key as lower-case hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}
