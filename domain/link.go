package domain

// LinkKind names the collection a link record lives in.
type LinkKind string

const (
	LinkLegalRepresentative LinkKind = "legal_representatives"
	LinkAuthorizedSignatory LinkKind = "authorized_signatories"
)

// NotFound returns the kind-specific absence error.
func (k LinkKind) NotFound() *Error {
	if k == LinkAuthorizedSignatory {
		return ErrAuthorizedSignatoryNotFound
	}
	return ErrLegalRepresentativeNotFound
}

// Exists returns the kind-specific conflict error.
func (k LinkKind) Exists() *Error {
	if k == LinkAuthorizedSignatory {
		return ErrAuthorizedSignatoryExists
	}
	return ErrLegalRepresentativeExists
}

// LinkRecord is the stored shape of a LegalRepresentative or AuthorizedSignatory:
// a reference to a Person plus an active flag.
type LinkRecord struct {
	ID       string `json:"id" bson:"_id"`
	PersonID string `json:"person_id" bson:"person_id"`
	Status   bool   `json:"status" bson:"status"`
}

// LinkedPerson is a link record joined with the Person it references.
type LinkedPerson struct {
	ID       string  `json:"id"`
	PersonID string  `json:"person_id"`
	Status   bool    `json:"status"`
	Person   *Person `json:"person,omitempty"`
}

// Record strips the joined person.
func (l *LinkedPerson) Record() LinkRecord {
	return LinkRecord{ID: l.ID, PersonID: l.PersonID, Status: l.Status}
}

// LinkIDs extracts ids preserving order.
func LinkIDs(links []LinkedPerson) []string {
	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.ID)
	}
	return ids
}
