package libs

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digest(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

func sampleParams() PaymentParams {
	return PaymentParams{
		Key:         "K1",
		TxnID:       "TXN1",
		Amount:      "100.00",
		ProductInfo: "Toy",
		FirstName:   "A",
		Email:       "a@x.com",
	}
}

func TestGenerateHash_FieldOrder(t *testing.T) {
	h := GenerateHash(sampleParams(), "abc", "")

	expected := digest("K1|TXN1|100.00|Toy|A|a@x.com|||||||||||abc")
	assert.Equal(t, expected, h.V1)
	assert.Empty(t, h.V2)
	assert.Equal(t, expected, h.String())
}

func TestGenerateHash_Deterministic(t *testing.T) {
	a := GenerateHash(sampleParams(), "abc", "")
	b := GenerateHash(sampleParams(), "abc", "")
	assert.Equal(t, a, b)
}

func TestGenerateHash_EveryFieldMatters(t *testing.T) {
	base := GenerateHash(sampleParams(), "abc", "").V1

	mutations := map[string]func(p *PaymentParams){
		"key":         func(p *PaymentParams) { p.Key = "K2" },
		"txnid":       func(p *PaymentParams) { p.TxnID = "TXN2" },
		"amount":      func(p *PaymentParams) { p.Amount = "100.01" },
		"productinfo": func(p *PaymentParams) { p.ProductInfo = "Toys" },
		"firstname":   func(p *PaymentParams) { p.FirstName = "B" },
		"email":       func(p *PaymentParams) { p.Email = "b@x.com" },
		"udf1":        func(p *PaymentParams) { p.UDF[0] = "x" },
		"udf2":        func(p *PaymentParams) { p.UDF[1] = "x" },
		"udf3":        func(p *PaymentParams) { p.UDF[2] = "x" },
		"udf4":        func(p *PaymentParams) { p.UDF[3] = "x" },
		"udf5":        func(p *PaymentParams) { p.UDF[4] = "x" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p := sampleParams()
			mutate(&p)
			assert.NotEqual(t, base, GenerateHash(p, "abc", "").V1)
		})
	}

	assert.NotEqual(t, base, GenerateHash(sampleParams(), "abd", "").V1)
}

func TestGenerateHash_UDFSlotsAreNotInterchangeable(t *testing.T) {
	p1 := sampleParams()
	p1.UDF[0] = "gift"
	p2 := sampleParams()
	p2.UDF[1] = "gift"
	assert.NotEqual(t, GenerateHash(p1, "abc", "").V1, GenerateHash(p2, "abc", "").V1)
}

func TestGenerateHash_Enhanced(t *testing.T) {
	h := GenerateHash(sampleParams(), "abc", "xyz")
	assert.True(t, h.Enhanced())
	assert.Equal(t, digest("K1|TXN1|100.00|Toy|A|a@x.com|||||||||||abc"), h.V1)
	assert.Equal(t, digest("K1|TXN1|100.00|Toy|A|a@x.com|||||||||||xyz"), h.V2)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(h.String()), &decoded))
	assert.Equal(t, h.V1, decoded["v1"])
	assert.Equal(t, h.V2, decoded["v2"])
}

func fixturePayload() CallbackPayload {
	return CallbackPayload{
		Key:         "K1",
		TxnID:       "TXN1",
		Amount:      "100.00",
		ProductInfo: "Toy",
		FirstName:   "A",
		Email:       "a@x.com",
		Status:      "success",
	}
}

func TestVerifyHash_Fixture(t *testing.T) {
	p := fixturePayload()
	p.Hash = digest("abc|success|||||||||||a@x.com|A|Toy|100.00|TXN1|K1")

	assert.Equal(t, "abc|success|||||||||||a@x.com|A|Toy|100.00|TXN1|K1", ResponseHashString(p, "abc"))
	assert.True(t, VerifyHash(p, "abc"))
	assert.NoError(t, VerifyCallback(p, "abc"))
}

func TestVerifyHash_AcceptsUppercaseHex(t *testing.T) {
	p := fixturePayload()
	p.Hash = "  " + strings.ToUpper(digest("abc|success|||||||||||a@x.com|A|Toy|100.00|TXN1|K1"))
	assert.True(t, VerifyHash(p, "abc"))
}

func TestVerifyHash_Mismatch(t *testing.T) {
	p := fixturePayload()
	p.Hash = digest("abc|success|||||||||||a@x.com|A|Toy|100.00|TXN1|K1")

	tampered := p
	tampered.Amount = "1.00"
	assert.False(t, VerifyHash(tampered, "abc"))
	assert.ErrorIs(t, VerifyCallback(tampered, "abc"), ErrHashMismatch)

	assert.False(t, VerifyHash(p, "wrong-salt"))

	empty := p
	empty.Hash = ""
	assert.False(t, VerifyHash(empty, "abc"))
}

func TestVerifyHash_AdditionalCharges(t *testing.T) {
	p := fixturePayload()
	p.AdditionalCharges = "2.50"
	p.Hash = digest("2.50|abc|success|||||||||||a@x.com|A|Toy|100.00|TXN1|K1")
	assert.True(t, VerifyHash(p, "abc"))

	p.AdditionalCharges = ""
	assert.False(t, VerifyHash(p, "abc"))
}

func TestVerifyHash_UDFOrderIsReversed(t *testing.T) {
	p := fixturePayload()
	p.UDF = [5]string{"u1", "u2", "u3", "u4", "u5"}
	p.Hash = digest("abc|success||||||u5|u4|u3|u2|u1|a@x.com|A|Toy|100.00|TXN1|K1")
	assert.True(t, VerifyHash(p, "abc"))
}

func TestParseCallback(t *testing.T) {
	form := url.Values{}
	form.Set("key", "K1")
	form.Set("txnid", "TXN1")
	form.Set("amount", "100.00")
	form.Set("productinfo", "Toy")
	form.Set("firstname", "A")
	form.Set("email", "a@x.com")
	form.Set("status", "success")
	form.Set("udf1", "cart_1")
	form.Set("hash", "abc")

	p := ParseCallback(form)
	assert.Equal(t, "TXN1", p.TxnID)
	assert.Equal(t, "cart_1", p.UDF[0])
	assert.Equal(t, "", p.UDF[4])
	assert.Equal(t, "success", p.Status)
}
