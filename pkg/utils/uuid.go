package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"

	"github.com/google/uuid"
)

const (
	deviceIDPrefix = "device_"
	deviceIDLength = 9
	base36         = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,100}$`)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// NewDeviceID generates an anonymous device identifier such as "device_k3x9a0q2m".
func NewDeviceID() string {
	b := make([]byte, deviceIDLength)
	limit := big.NewInt(int64(len(base36)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand does not fail on supported platforms; fall back to a uuid fragment
			return deviceIDPrefix + uuid.NewString()[:deviceIDLength]
		}
		b[i] = base36[n.Int64()]
	}
	return deviceIDPrefix + string(b)
}

// ValidDeviceID accepts identifiers made of letters, digits, '_' and '-'.
func ValidDeviceID(id string) bool {
	return deviceIDPattern.MatchString(id)
}
