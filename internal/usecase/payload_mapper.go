package usecase

import (
	"strings"

	"github.com/Victor-armando18/azure-connector/internal/domain"
)

// PayloadMapper transforma um registo de compra no payload da Logic App.
type PayloadMapper struct{}

func NewPayloadMapper() *PayloadMapper {
	return &PayloadMapper{}
}

func (m *PayloadMapper) Build(record domain.PurchaseRecord) (domain.OutboundPayload, error) {
	email, ok := SelectEmail(record)
	if !ok {
		return domain.OutboundPayload{}, domain.ErrMissingEmail
	}
	license, ok := FirstItemName(record)
	if !ok {
		return domain.OutboundPayload{}, domain.ErrEmptyCart
	}

	post := func(key string) string { return record.PostField(key).OrElse("") }

	return domain.OutboundPayload{
		Email:        email,
		GivenName:    post(domain.FieldFirstName),
		Surname:      post(domain.FieldLastName),
		Business:     post(domain.FieldBusiness),
		BusinessSect: TrimLineEndings(post(domain.FieldBusinessSect)),
		BusinessType: TrimLineEndings(post(domain.FieldBusinessType)),
		Address:      ComposeAddress(post(domain.FieldAddress1), post(domain.FieldAddress2), post(domain.FieldCity)),
		State:        post(domain.FieldState),
		Postcode:     post(domain.FieldZip),
		Country:      post(domain.FieldCountry),
		Phone:        post(domain.FieldPhone),
		License:      license,
		Principle:    PrincipalName(email),
	}, nil
}

// SelectEmail usa o email Microsoft do carrinho e, quando ausente, o email do
// checkout. ok é falso se nenhum existir.
func SelectEmail(record domain.PurchaseRecord) (string, bool) {
	if f := record.CartField(domain.FieldMicrosoftEmail); f.Present {
		return f.Value, true
	}
	f := record.PostField(domain.FieldCheckoutEmail)
	return f.Value, f.Present
}

// PrincipalName devolve o fragmento de UPN do Active Directory.
func PrincipalName(email string) string {
	return strings.ReplaceAll(email, "@", "_")
}

// TrimLineEndings remove apenas \r e \n finais.
func TrimLineEndings(s string) string {
	return strings.TrimRight(s, "\r\n")
}

// ComposeAddress junta os segmentos sem colapsar os vazios.
func ComposeAddress(address1, address2, city string) string {
	return address1 + ", " + address2 + ", " + city
}

// FirstItemName devolve o nome do primeiro item do carrinho.
func FirstItemName(record domain.PurchaseRecord) (string, bool) {
	item := record.CartItem(0)
	if item == nil {
		return "", false
	}
	return domain.FieldOf(item, domain.FieldItemName).Value, true
}
