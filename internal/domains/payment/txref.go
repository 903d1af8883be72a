package payment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// MaxTxRefLen is the gateway's hard ceiling on reference length.
const MaxTxRefLen = 50

// GenerateTxRef builds the gateway reference: the first 12 characters of the
// booking id, a dash, and 8 random hex characters. 21 characters total, well
// under the gateway ceiling, and unique per attempt so a retried
// initialization never collides with an earlier one.
func GenerateTxRef(bookingID uuid.UUID) (string, error) {
	raw := make([]byte, 4)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate tx_ref: %w", err)
	}
	return bookingID.String()[:12] + "-" + hex.EncodeToString(raw), nil
}
