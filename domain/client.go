package domain

import "time"

// ClientType separates individual from business clients.
type ClientType string

const (
	ClientPersonal    ClientType = "PERSONAL"
	ClientEmpresarial ClientType = "EMPRESARIAL"
)

func (t ClientType) Valid() bool {
	return t == ClientPersonal || t == ClientEmpresarial
}

// ProfileType is the commercial segment of a client.
type ProfileType string

const (
	ProfileVIP    ProfileType = "VIP"
	ProfileNormal ProfileType = "NORMAL"
	ProfilePYME   ProfileType = "PYME"
)

func (t ProfileType) Valid() bool {
	switch t {
	case ProfileVIP, ProfileNormal, ProfilePYME:
		return true
	}
	return false
}

// Client is the stored client document. It holds weak references (ids) only.
type Client struct {
	ID                     string      `json:"id" bson:"_id"`
	ClientType             ClientType  `json:"client_type" bson:"client_type"`
	ProfileType            ProfileType `json:"profile_type,omitempty" bson:"profile_type,omitempty"`
	PersonID               string      `json:"person_id" bson:"person_id"`
	LegalRepresentativeIDs []string    `json:"legal_representative_ids" bson:"legal_representative_ids"`
	AuthorizedSignatoryIDs []string    `json:"authorized_signatory_ids" bson:"authorized_signatory_ids"`
	CreateAt               time.Time   `json:"create_at" bson:"create_at"`
	EndAt                  *time.Time  `json:"end_at,omitempty" bson:"end_at,omitempty"`
	Status                 bool        `json:"status" bson:"status"`
}

// ClientView is the assembled aggregate returned to callers.
type ClientView struct {
	Client
	Person                *Person        `json:"person,omitempty"`
	LegalRepresentatives  []LinkedPerson `json:"legal_representatives,omitempty"`
	AuthorizedSignatories []LinkedPerson `json:"authorized_signatories,omitempty"`
}

// IsBusiness reports whether nested representatives apply to the client.
func (c *Client) IsBusiness() bool {
	return c != nil && c.ClientType == ClientEmpresarial
}

// Validate checks enum fields. Business rules live in the client use case.
func (c *Client) Validate() error {
	if c == nil {
		return ErrInvalidPayload
	}
	if !c.ClientType.Valid() {
		return NewError(ErrCodeInvalid, "unknown client type "+string(c.ClientType))
	}
	if c.ProfileType != "" && !c.ProfileType.Valid() {
		return NewError(ErrCodeInvalid, "unknown profile type "+string(c.ProfileType))
	}
	return nil
}
