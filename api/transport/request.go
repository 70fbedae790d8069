package transport

import (
	"strings"
	"time"

	"github.com/fastygo/clients/domain"
)

// DateLayout is the calendar-date format accepted for birth dates.
const DateLayout = "2006-01-02"

type PersonRequest struct {
	ID             string `json:"id"`
	TradeName      string `json:"trade_name"`
	CompanyName    string `json:"company_name"`
	Name           string `json:"name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	Cellphone      string `json:"cellphone"`
	Phone          string `json:"phone"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	BirthDate      string `json:"birth_date"`
}

type LinkedPersonRequest struct {
	ID     string         `json:"id"`
	Status *bool          `json:"status"`
	Person *PersonRequest `json:"person"`
}

type ClientRequest struct {
	ID                     string                `json:"id"`
	ClientType             string                `json:"client_type"`
	ProfileType            string                `json:"profile_type"`
	PersonID               string                `json:"person_id"`
	Person                 *PersonRequest        `json:"person"`
	LegalRepresentativeIDs []string              `json:"legal_representative_ids"`
	AuthorizedSignatoryIDs []string              `json:"authorized_signatory_ids"`
	LegalRepresentatives   []LinkedPersonRequest `json:"legal_representatives"`
	AuthorizedSignatories  []LinkedPersonRequest `json:"authorized_signatories"`
	CreateAt               string                `json:"create_at"`
	EndAt                  string                `json:"end_at"`
	Status                 *bool                 `json:"status"`
}

// IDListRequest carries the ids of a findAllByIdList query.
type IDListRequest struct {
	IDs []string `json:"ids"`
}

func (r *PersonRequest) ToDomain() (*domain.Person, error) {
	if r == nil {
		return nil, nil
	}
	person := &domain.Person{
		ID:             r.ID,
		TradeName:      r.TradeName,
		CompanyName:    r.CompanyName,
		Name:           r.Name,
		LastName:       r.LastName,
		Email:          r.Email,
		Address:        r.Address,
		Cellphone:      r.Cellphone,
		Phone:          r.Phone,
		DocumentType:   domain.DocumentType(strings.ToUpper(r.DocumentType)),
		DocumentNumber: strings.TrimSpace(r.DocumentNumber),
	}
	birth, err := parseDate("birth_date", r.BirthDate)
	if err != nil {
		return nil, err
	}
	person.BirthDate = birth
	return person, nil
}

// ToDomain defaults status to active when omitted.
func (r *LinkedPersonRequest) ToDomain() (*domain.LinkedPerson, error) {
	person, err := r.Person.ToDomain()
	if err != nil {
		return nil, err
	}
	linked := &domain.LinkedPerson{ID: r.ID, Status: true, Person: person}
	if r.Status != nil {
		linked.Status = *r.Status
	}
	if person != nil {
		linked.PersonID = person.ID
	}
	return linked, nil
}

func LinkedPersonsToDomain(in []LinkedPersonRequest) ([]domain.LinkedPerson, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]domain.LinkedPerson, 0, len(in))
	for i := range in {
		linked, err := in[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *linked)
	}
	return out, nil
}

func (r *ClientRequest) ToDomain() (*domain.ClientView, error) {
	person, err := r.Person.ToDomain()
	if err != nil {
		return nil, err
	}
	legalReps, err := LinkedPersonsToDomain(r.LegalRepresentatives)
	if err != nil {
		return nil, err
	}
	signatories, err := LinkedPersonsToDomain(r.AuthorizedSignatories)
	if err != nil {
		return nil, err
	}
	createAt, err := parseTimestamp("create_at", r.CreateAt)
	if err != nil {
		return nil, err
	}
	endAt, err := parseTimestamp("end_at", r.EndAt)
	if err != nil {
		return nil, err
	}

	view := &domain.ClientView{
		Client: domain.Client{
			ID:                     r.ID,
			ClientType:             domain.ClientType(strings.ToUpper(r.ClientType)),
			ProfileType:            domain.ProfileType(strings.ToUpper(r.ProfileType)),
			PersonID:               r.PersonID,
			LegalRepresentativeIDs: r.LegalRepresentativeIDs,
			AuthorizedSignatoryIDs: r.AuthorizedSignatoryIDs,
			EndAt:                  endAt,
			Status:                 true,
		},
		Person:                person,
		LegalRepresentatives:  legalReps,
		AuthorizedSignatories: signatories,
	}
	if createAt != nil {
		view.CreateAt = *createAt
	}
	if r.Status != nil {
		view.Status = *r.Status
	}
	return view, nil
}

func parseDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, field+" must be formatted as "+DateLayout, err)
	}
	return &parsed, nil
}

// parseTimestamp accepts RFC3339 or a calendar date.
func parseTimestamp(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		utc := parsed.UTC()
		return &utc, nil
	}
	return parseDate(field, value)
}
