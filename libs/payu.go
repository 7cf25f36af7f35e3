package libs

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

// The PayU field order below is fixed by the gateway. Reordering any slot
// silently breaks verification on their side.

var ErrHashMismatch = errors.New("payu: hash mismatch")

type PaymentParams struct {
	Key         string
	TxnID       string
	Amount      string
	ProductInfo string
	FirstName   string
	Email       string
	UDF         [5]string
}

// PaymentHash holds the v1 hash and, in enhanced mode, the v2 hash.
type PaymentHash struct {
	V1 string `json:"v1"`
	V2 string `json:"v2,omitempty"`
}

func (h PaymentHash) Enhanced() bool {
	return h.V2 != ""
}

// String renders the value posted as the "hash" form field.
func (h PaymentHash) String() string {
	if !h.Enhanced() {
		return h.V1
	}
	b, _ := json.Marshal(h)
	return string(b)
}

func requestHashString(p PaymentParams, salt string) string {
	fields := []string{
		p.Key, p.TxnID, p.Amount, p.ProductInfo, p.FirstName, p.Email,
		p.UDF[0], p.UDF[1], p.UDF[2], p.UDF[3], p.UDF[4],
		"", "", "", "", "",
		salt,
	}
	return strings.Join(fields, "|")
}

// GenerateHash signs an outbound payment request. A non-empty saltV2 also
// produces the v2 hash over the same fields.
func GenerateHash(p PaymentParams, salt, saltV2 string) PaymentHash {
	h := PaymentHash{V1: sha512Hex(requestHashString(p, salt))}
	if saltV2 != "" {
		h.V2 = sha512Hex(requestHashString(p, saltV2))
	}
	return h
}

type CallbackPayload struct {
	Key               string
	TxnID             string
	Amount            string
	ProductInfo       string
	FirstName         string
	Email             string
	UDF               [5]string
	Status            string
	Hash              string
	AdditionalCharges string
	MihpayID          string
	Mode              string
	Error             string
}

func ParseCallback(form url.Values) CallbackPayload {
	return CallbackPayload{
		Key:               form.Get("key"),
		TxnID:             form.Get("txnid"),
		Amount:            form.Get("amount"),
		ProductInfo:       form.Get("productinfo"),
		FirstName:         form.Get("firstname"),
		Email:             form.Get("email"),
		UDF:               [5]string{form.Get("udf1"), form.Get("udf2"), form.Get("udf3"), form.Get("udf4"), form.Get("udf5")},
		Status:            form.Get("status"),
		Hash:              form.Get("hash"),
		AdditionalCharges: form.Get("additionalCharges"),
		MihpayID:          form.Get("mihpayid"),
		Mode:              form.Get("mode"),
		Error:             form.Get("error_Message"),
	}
}

// ResponseHashString is the reverse-order string the gateway signs in its callback.
func ResponseHashString(p CallbackPayload, salt string) string {
	fields := []string{
		salt, p.Status,
		"", "", "", "", "",
		p.UDF[4], p.UDF[3], p.UDF[2], p.UDF[1], p.UDF[0],
		p.Email, p.FirstName, p.ProductInfo, p.Amount, p.TxnID, p.Key,
	}
	s := strings.Join(fields, "|")
	if p.AdditionalCharges != "" {
		s = p.AdditionalCharges + "|" + s
	}
	return s
}

func VerifyHash(p CallbackPayload, salt string) bool {
	expected := sha512Hex(ResponseHashString(p, salt))
	got := strings.ToLower(strings.TrimSpace(p.Hash))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

func VerifyCallback(p CallbackPayload, salt string) error {
	if !VerifyHash(p, salt) {
		return ErrHashMismatch
	}
	return nil
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
