// Package idgen draws random WAMP identifiers, retrying on collision
// against a caller-supplied set of identifiers already in use. This
// mirrors create_request in the Rust original: draw, check membership,
// redraw on collision.
package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/elast0ny/wamp-async/message"
)

// maxID is the upper bound of the WAMP identifier domain, 2^53, chosen so
// IDs round-trip exactly through an IEEE 754 double (the JSON codec's
// number representation).
const maxID = int64(1) << 53

// Taken reports whether id is already in use and must not be drawn again.
type Taken func(id message.ID) bool

// Next draws a random ID in [1, 2^53], retrying against taken until it
// finds one not already in use.
func Next(taken Taken) (message.ID, error) {
	for {
		id, err := draw()
		if err != nil {
			return 0, err
		}
		if !taken(id) {
			return id, nil
		}
	}
}

func draw() (message.ID, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxID))
	if err != nil {
		return 0, fmt.Errorf("idgen: reading random bytes: %w", err)
	}
	// Shift into [1, 2^53] rather than [0, 2^53).
	return message.ID(n.Int64() + 1), nil
}
