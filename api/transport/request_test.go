package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/clients/domain"
)

func TestClientRequest_ToDomain(t *testing.T) {
	body := `{
		"client_type": "empresarial",
		"profile_type": "pyme",
		"person": {"document_type": "ruc", "document_number": " 20100070970 ", "company_name": "Acme SAC"},
		"legal_representatives": [
			{"person": {"document_type": "DNI", "document_number": "11111111", "birth_date": "1980-02-29"}},
			{"status": false, "person": {"document_type": "DNI", "document_number": "22222222"}}
		],
		"create_at": "2024-01-15T10:00:00-05:00"
	}`
	var req ClientRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	view, err := req.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, domain.ClientEmpresarial, view.ClientType)
	assert.Equal(t, domain.ProfilePYME, view.ProfileType)
	assert.True(t, view.Status)
	assert.Equal(t, "20100070970", view.Person.DocumentNumber)
	assert.Equal(t, domain.DocumentRUC, view.Person.DocumentType)
	assert.Equal(t, time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC), view.CreateAt)
	require.Len(t, view.LegalRepresentatives, 2)
	assert.True(t, view.LegalRepresentatives[0].Status)
	assert.False(t, view.LegalRepresentatives[1].Status)
	require.NotNil(t, view.LegalRepresentatives[0].Person.BirthDate)
	assert.Equal(t, time.February, view.LegalRepresentatives[0].Person.BirthDate.Month())
	assert.Nil(t, view.AuthorizedSignatories)
}

func TestPersonRequest_RejectsBadBirthDate(t *testing.T) {
	req := &PersonRequest{DocumentNumber: "1", BirthDate: "15/01/1990"}
	_, err := req.ToDomain()
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestPersonRequest_NilIsNil(t *testing.T) {
	var req *PersonRequest
	person, err := req.ToDomain()
	require.NoError(t, err)
	assert.Nil(t, person)
}
