package domain

import (
	"strings"
	"time"
)

// DocumentType classifies the identity document carried by a Person.
type DocumentType string

const (
	DocumentDNI      DocumentType = "DNI"
	DocumentCE       DocumentType = "CE"
	DocumentRUC      DocumentType = "RUC"
	DocumentPassport DocumentType = "PASSPORT"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentDNI, DocumentCE, DocumentRUC, DocumentPassport:
		return true
	}
	return false
}

// Person is a natural or legal person. DocumentNumber is unique among persons.
type Person struct {
	ID             string       `json:"id" bson:"_id"`
	TradeName      string       `json:"trade_name,omitempty" bson:"trade_name,omitempty"`
	CompanyName    string       `json:"company_name,omitempty" bson:"company_name,omitempty"`
	Name           string       `json:"name,omitempty" bson:"name,omitempty"`
	LastName       string       `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Email          string       `json:"email,omitempty" bson:"email,omitempty"`
	Address        string       `json:"address,omitempty" bson:"address,omitempty"`
	Cellphone      string       `json:"cellphone,omitempty" bson:"cellphone,omitempty"`
	Phone          string       `json:"phone,omitempty" bson:"phone,omitempty"`
	DocumentType   DocumentType `json:"document_type,omitempty" bson:"document_type,omitempty"`
	DocumentNumber string       `json:"document_number" bson:"document_number"`
	BirthDate      *time.Time   `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
}

// Validate checks the fields every store relies on.
func (p *Person) Validate() error {
	if p == nil {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(p.DocumentNumber) == "" {
		return NewError(ErrCodeInvalid, "document number is required")
	}
	if p.DocumentType != "" && !p.DocumentType.Valid() {
		return NewError(ErrCodeInvalid, "unknown document type "+string(p.DocumentType))
	}
	return nil
}
