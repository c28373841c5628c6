// Package codes generates human-readable business codes such as
// RES-20250114-8F3K for reservations and FAC-20250114-Q2M7 for invoices.
package codes

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Unambiguous uppercase alphabet: no 0/O, 1/I/L.
const alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const suffixLen = 4

// New returns PREFIX-YYYYMMDD-XXXX where XXXX is a random suffix. Uniqueness
// is enforced by the database column; callers retry on a collision.
func New(prefix string, now time.Time) string {
	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(fmt.Sprintf("codes: entropy source unavailable: %v", err))
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102"), buf)
}
