// Package paysig implements the payment-gateway integrity digest: a SHA-512
// over pipe-delimited fields shared with the counterparty. The field order
// and delimiter placement are part of the external contract and must not
// change independently of it.
package paysig

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

const delimiter = "|"

// The request layout carries five reserved segments between the user-defined
// fields and the salt. They are always empty but always present.
const reservedSegments = 5

// Fields is the ordered set of values that participate in a hash. Amount must
// already be a two-decimal string; callers render it before signing.
type Fields struct {
	Key         string
	TxnID       string
	Amount      string
	ProductInfo string
	FirstName   string
	Email       string
	UDF         [5]string
}

// RequestHash computes the authoritative outbound digest:
//
//	sha512(key|txnid|amount|productinfo|firstname|email|udf1..udf5|<5 empty>|salt)
//
// returned as lowercase hex.
func RequestHash(f Fields, salt string) string {
	parts := make([]string, 0, 6+5+reservedSegments+1)
	parts = append(parts, f.Key, f.TxnID, f.Amount, f.ProductInfo, f.FirstName, f.Email)
	parts = append(parts, f.UDF[:]...)
	for range reservedSegments {
		parts = append(parts, "")
	}
	parts = append(parts, salt)
	return digest(parts)
}

// blankStyle names the historically-observed conventions for encoding the
// optional-field block in response hashes. The counterparty has emitted both;
// verification enumerates them rather than guessing.
type blankStyle int

const (
	// blankStyleReserved mirrors the request layout: the reserved empty
	// segments precede the user-defined fields.
	blankStyleReserved blankStyle = iota
	// blankStylePerField emits exactly one segment per declared
	// user-defined field and no reserved block.
	blankStylePerField
)

var blankStyles = [...]blankStyle{blankStyleReserved, blankStylePerField}

// ResponseHashCandidates generates every digest a well-known gateway encoding
// could have produced for this response: the cross-product of configured
// salts (rotation), blank-count conventions, and trimmed/untrimmed free-text
// fields. The order is deterministic: salt-major, then style, then raw
// before trimmed.
func ResponseHashCandidates(f Fields, status string, salts []string) []string {
	candidates := make([]string, 0, len(salts)*len(blankStyles)*2)
	for _, salt := range salts {
		for _, style := range blankStyles {
			candidates = append(candidates,
				digest(responseParts(f, status, salt, style, false)),
				digest(responseParts(f, status, salt, style, true)),
			)
		}
	}
	return candidates
}

// VerifyResponseHash reports whether received matches any legitimate
// reconstruction. A mismatch means the payment must be treated as unverified;
// an empty received digest never verifies.
func VerifyResponseHash(received string, f Fields, status string, salts []string) bool {
	received = strings.ToLower(strings.TrimSpace(received))
	if received == "" {
		return false
	}
	ok := false
	for _, candidate := range ResponseHashCandidates(f, status, salts) {
		// Compare every candidate to keep timing independent of match position.
		if subtle.ConstantTimeCompare([]byte(received), []byte(candidate)) == 1 {
			ok = true
		}
	}
	return ok
}

// responseParts builds the reversed (response-direction) field sequence:
// salt and status lead, then the optional-field block per style, then the
// identity fields in reverse request order.
func responseParts(f Fields, status, salt string, style blankStyle, trim bool) []string {
	amount, email, firstName := f.Amount, f.Email, f.FirstName
	if trim {
		amount = strings.TrimSpace(amount)
		email = strings.TrimSpace(email)
		firstName = strings.TrimSpace(firstName)
	}

	parts := make([]string, 0, 2+reservedSegments+5+5)
	parts = append(parts, salt, status)
	if style == blankStyleReserved {
		for range reservedSegments {
			parts = append(parts, "")
		}
	}
	for i := len(f.UDF) - 1; i >= 0; i-- {
		parts = append(parts, f.UDF[i])
	}
	parts = append(parts, email, firstName, f.ProductInfo, amount, f.TxnID, f.Key)
	return parts
}

func digest(parts []string) string {
	sum := sha512.Sum512([]byte(strings.Join(parts, delimiter)))
	return hex.EncodeToString(sum[:])
}
