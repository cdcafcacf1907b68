package domain

import (
	"errors"
)

// --- Chaves do registo de compra ---

const (
	KeyCartDetails = "cart_details"
	KeyPostData    = "post_data"

	FieldMicrosoftEmail = "ceddcf-field-8-1"
	FieldCheckoutEmail  = "edd_email"
	FieldFirstName      = "edd_first"
	FieldLastName       = "edd_last"
	FieldBusiness       = "ceddcf-field-1-1"
	FieldBusinessType   = "ceddcf-field-2-1"
	FieldBusinessSect   = "ceddcf-field-3-1"
	FieldPhone          = "ceddcf-field-5-1"
	FieldAddress1       = "card_address"
	FieldAddress2       = "card_address_2"
	FieldCity           = "card_city"
	FieldState          = "card_state"
	FieldZip            = "card_zip"
	FieldCountry        = "billing_country"
	FieldItemName       = "name"
)

// Eventos registados no HookRegistry.
const (
	EventSendUserRequest  = "azc_send_user_request"
	EventSendDebugMessage = "azc_send_debug_message"
)

// --- Estruturas de Entrada/Saída ---

// OutboundPayload é o corpo JSON enviado para a Logic App.
type OutboundPayload struct {
	Email        string `json:"email"`
	GivenName    string `json:"givenName"`
	Surname      string `json:"surname"`
	Business     string `json:"business"`
	BusinessSect string `json:"business_sect"`
	BusinessType string `json:"business_type"`
	Address      string `json:"address"`
	State        string `json:"state"`
	Postcode     string `json:"postcode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	License      string `json:"license"`
	Principle    string `json:"principle"`
}

// ToMap devolve o payload no formato usado pelas regras JsonLogic.
func (p OutboundPayload) ToMap() map[string]any {
	return map[string]any{
		"email":         p.Email,
		"givenName":     p.GivenName,
		"surname":       p.Surname,
		"business":      p.Business,
		"business_sect": p.BusinessSect,
		"business_type": p.BusinessType,
		"address":       p.Address,
		"state":         p.State,
		"postcode":      p.Postcode,
		"country":       p.Country,
		"phone":         p.Phone,
		"license":       p.License,
		"principle":     p.Principle,
	}
}

// RulePackDefinition define a estrutura de um conjunto de guardas carregado.
type RulePackDefinition struct {
	Version     string       `json:"version" yaml:"version"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []RuleConfig `json:"rules" yaml:"rules"`
}

type RuleConfig struct {
	ID           string         `json:"id" yaml:"id"`
	Field        string         `json:"field,omitempty" yaml:"field,omitempty"`
	Logic        map[string]any `json:"logic" yaml:"logic"` // JsonLogic; true = violação
	ErrorMessage string         `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

type GuardViolation struct {
	RuleID  string `json:"ruleId"`
	Field   string `json:"field,omitempty"`
	Context string `json:"context"`
	Failed  bool   `json:"failed,omitempty"` // a regra não correu
}

// PreviewResult é o que o forwarder enviaria, sem enviar.
type PreviewResult struct {
	Payload    OutboundPayload  `json:"payload"`
	Violations []GuardViolation `json:"violations"`
}

// --- Erros ---
var (
	ErrTransport           = errors.New("logic app transport failed")
	ErrMissingEmail        = errors.New("purchase record has no email")
	ErrEmptyCart           = errors.New("purchase record has no cart items")
	ErrRuleExecutionFailed = errors.New("rule execution failed")
	ErrUnknownEvent        = errors.New("no handlers registered for event")
	ErrGuardsRejected      = errors.New("payload rejected by guards")
)
