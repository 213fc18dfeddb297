package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

const refCodePrefix = "NOTIN-RC"

const refCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferenceCode builds a human-traceable transaction label of the shape
// NOTIN-RC-<KIND>-<YYYYMMDD>-<6 random chars>. It is an audit label, not a
// key: uniqueness is not guaranteed, the ledger entry id is the real key.
func ReferenceCode(kind string) string {
	suffix := make([]byte, 6)
	random := make([]byte, 6)
	if _, err := rand.Read(random); err != nil {
		// crypto/rand only fails if the OS entropy source is broken;
		// fall back to a time-derived suffix rather than panicking.
		for i := range random {
			random[i] = byte(time.Now().UnixNano() >> (i * 8))
		}
	}
	for i, b := range random {
		suffix[i] = refCodeCharset[int(b)%len(refCodeCharset)]
	}

	return fmt.Sprintf("%s-%s-%s-%s", refCodePrefix, kind, time.Now().Format("20060102"), string(suffix))
}

func ProductReferenceCode() string {
	return ReferenceCode("PRODUCT")
}

func PackageReferenceCode() string {
	return ReferenceCode("PACKAGE")
}

func DepositReferenceCode() string {
	return ReferenceCode("DEPOSIT")
}

func RefundReferenceCode() string {
	return ReferenceCode("REFUND")
}
