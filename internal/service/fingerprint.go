package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/guttosm/pack-advice/internal/domain/model"
)

// UnknownCountry stands in for a missing destination country in fingerprints.
const UnknownCountry = "UNKNOWN"

// Fingerprint digests the classified units and destination country.
// It is nil when no unit was classified.
func Fingerprint(units model.ShippingUnits, countryCode string) *string {
	if len(units) == 0 {
		return nil
	}
	country := strings.ToUpper(strings.TrimSpace(countryCode))
	if country == "" {
		country = UnknownCountry
	}

	var b strings.Builder
	b.WriteString(country)
	for _, e := range units.Sorted() {
		b.WriteByte('|')
		b.WriteString(e.Name)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(e.Quantity))
	}

	sum := sha256.Sum256([]byte(b.String()))
	fp := hex.EncodeToString(sum[:])
	return &fp
}
