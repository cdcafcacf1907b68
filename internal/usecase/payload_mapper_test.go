package usecase

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Victor-armando18/azure-connector/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseFixture(t *testing.T, raw string) domain.PurchaseRecord {
	t.Helper()
	var record domain.PurchaseRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &record))
	return record
}

const fullPurchase = `{
	"cart_details": {
		"0": {"name": "Pro License", "price": 99},
		"1": {"name": "Support"},
		"ceddcf-field-8-1": null
	},
	"post_data": {
		"edd_email": "a@b.com",
		"edd_first": "Jane",
		"edd_last": "Doe",
		"ceddcf-field-1-1": "Acme",
		"ceddcf-field-2-1": "Retail\r\n",
		"ceddcf-field-3-1": "Food\n",
		"ceddcf-field-5-1": "+61 2 5550",
		"card_address": "123 Main St",
		"card_address_2": "",
		"card_city": "Springfield",
		"card_state": "NSW",
		"card_zip": "2000",
		"billing_country": "AU"
	}
}`

func TestPayloadMapper_Build(t *testing.T) {
	mapper := NewPayloadMapper()

	t.Run("Cenario ponta a ponta com email do checkout", func(t *testing.T) {
		payload, err := mapper.Build(purchaseFixture(t, fullPurchase))
		require.NoError(t, err)

		assert.Equal(t, domain.OutboundPayload{
			Email:        "a@b.com",
			GivenName:    "Jane",
			Surname:      "Doe",
			Business:     "Acme",
			BusinessSect: "Food",
			BusinessType: "Retail",
			Address:      "123 Main St, , Springfield",
			State:        "NSW",
			Postcode:     "2000",
			Country:      "AU",
			Phone:        "+61 2 5550",
			License:      "Pro License",
			Principle:    "a_b.com",
		}, payload)
	})

	t.Run("Nomes dos campos JSON sao exatos", func(t *testing.T) {
		payload, err := mapper.Build(purchaseFixture(t, fullPurchase))
		require.NoError(t, err)

		b, err := json.Marshal(payload)
		require.NoError(t, err)
		var fields map[string]any
		require.NoError(t, json.Unmarshal(b, &fields))

		keys := []string{"email", "givenName", "surname", "business", "business_sect", "business_type",
			"address", "state", "postcode", "country", "phone", "license", "principle"}
		assert.Len(t, fields, len(keys))
		for _, k := range keys {
			assert.Contains(t, fields, k)
		}
	})

	t.Run("Campos em falta ficam vazios", func(t *testing.T) {
		payload, err := mapper.Build(purchaseFixture(t, `{
			"cart_details": [{"name": "Basic"}],
			"post_data": {"edd_email": "x@y.z"}
		}`))
		require.NoError(t, err)
		assert.Equal(t, "", payload.GivenName)
		assert.Equal(t, ", , ", payload.Address)
		assert.Equal(t, "Basic", payload.License)
	})

	t.Run("Sem email devolve ErrMissingEmail", func(t *testing.T) {
		_, err := mapper.Build(purchaseFixture(t, `{"cart_details": [{"name": "Basic"}], "post_data": {}}`))
		assert.ErrorIs(t, err, domain.ErrMissingEmail)
	})

	t.Run("Carrinho vazio devolve ErrEmptyCart", func(t *testing.T) {
		_, err := mapper.Build(purchaseFixture(t, `{"cart_details": [], "post_data": {"edd_email": "a@b.com"}}`))
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
	})
}

func TestSelectEmail(t *testing.T) {
	t.Run("Campo Microsoft presente tem prioridade", func(t *testing.T) {
		record := purchaseFixture(t, `{
			"cart_details": {"ceddcf-field-8-1": "jane@contoso.onmicrosoft.com"},
			"post_data": {"edd_email": "a@b.com"}
		}`)
		email, ok := SelectEmail(record)
		assert.True(t, ok)
		assert.Equal(t, "jane@contoso.onmicrosoft.com", email)
	})

	t.Run("Campo Microsoft vazio mas presente continua a ser usado", func(t *testing.T) {
		record := purchaseFixture(t, `{"cart_details": {"ceddcf-field-8-1": ""}, "post_data": {"edd_email": "a@b.com"}}`)
		email, ok := SelectEmail(record)
		assert.True(t, ok)
		assert.Equal(t, "", email)
	})

	t.Run("Campo Microsoft null usa edd_email", func(t *testing.T) {
		record := purchaseFixture(t, `{"cart_details": {"ceddcf-field-8-1": null}, "post_data": {"edd_email": "a@b.com"}}`)
		email, ok := SelectEmail(record)
		assert.True(t, ok)
		assert.Equal(t, "a@b.com", email)
	})

	t.Run("Campo Microsoft ausente usa edd_email", func(t *testing.T) {
		record := purchaseFixture(t, `{"post_data": {"edd_email": "a@b.com"}}`)
		email, _ := SelectEmail(record)
		assert.Equal(t, "a@b.com", email)
	})
}

func TestPrincipalName(t *testing.T) {
	for _, email := range []string{"a@b.com", "no-at-sign", "", "x@@y@z", "@"} {
		t.Run(email, func(t *testing.T) {
			got := PrincipalName(email)
			assert.NotContains(t, got, "@")
			assert.Equal(t, len(email), len(got))
			assert.Equal(t, strings.Count(email, "@"), strings.Count(got, "_")-strings.Count(email, "_"))
		})
	}
}

func TestTrimLineEndings(t *testing.T) {
	tests := map[string]string{
		"Retail\r\n":     "Retail",
		"Retail":         "Retail",
		"Retail\n\r\n":   "Retail",
		"Re\r\ntail":     "Re\r\ntail",
		"Retail \r\n":    "Retail ",
		"\r\n":           "",
		"  Retail\t\r\n": "  Retail\t",
	}
	for in, want := range tests {
		assert.Equal(t, want, TrimLineEndings(in), "%q", in)
	}
}

func TestComposeAddress(t *testing.T) {
	assert.Equal(t, "123 Main St, , Springfield", ComposeAddress("123 Main St", "", "Springfield"))
	assert.Equal(t, "1 A, Unit 2, Town", ComposeAddress("1 A", "Unit 2", "Town"))
	assert.Equal(t, ", , ", ComposeAddress("", "", ""))
}
