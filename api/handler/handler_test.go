package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/internal/infrastructure/monitor"
	"github.com/fastygo/clients/pkg/httpcontext"
	"github.com/fastygo/clients/repository/memory"
	clientUC "github.com/fastygo/clients/usecase/client"
	linkedUC "github.com/fastygo/clients/usecase/linked"
	personUC "github.com/fastygo/clients/usecase/person"
)

type fixture struct {
	persons *PersonHandler
	clients *ClientHandler
	legal   *LinkHandler
	calls   *memory.Calls
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	stores, calls := memory.Counted(memory.NewStores())
	adapter := httpcontext.NewAdapter(context.Background(), 0)

	persons := personUC.New(stores.Persons, nil)
	legal := linkedUC.New(stores.LegalRepresentatives, persons, nil, nil)
	signatories := linkedUC.New(stores.AuthorizedSignatories, persons, nil, nil)
	clients := clientUC.New(stores.Clients, persons, legal, signatories, nil, nil)

	return fixture{
		persons: NewPersonHandler(persons, adapter, nil),
		clients: NewClientHandler(clients, adapter, nil),
		legal:   NewLinkHandler(legal, adapter, nil),
		calls:   calls,
	}
}

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  struct {
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
}

func call(t *testing.T, h fasthttp.RequestHandler, method, uri, body string, userValues ...string) (*fasthttp.RequestCtx, envelope) {
	t.Helper()
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	for i := 0; i+1 < len(userValues); i += 2 {
		ctx.SetUserValue(userValues[i], userValues[i+1])
	}
	h(&ctx)

	var env envelope
	if len(ctx.Response.Body()) > 0 {
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	}
	return &ctx, env
}

func TestClientHandler_CreatePersonalThenConflict(t *testing.T) {
	f := newFixture(t)

	ctx, env := call(t, f.persons.Create, http.MethodPost, "/api/persons",
		`{"document_type":"DNI","document_number":"12345678","name":"Ana"}`)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())

	body := `{"client_type":"PERSONAL","profile_type":"VIP","person":{"document_type":"DNI","document_number":"12345678"}}`
	ctx, env = call(t, f.clients.Create, http.MethodPost, "/api/clients", body)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var view domain.ClientView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "Ana", view.Person.Name)
	assert.Empty(t, view.LegalRepresentatives)

	ctx, env = call(t, f.clients.Create, http.MethodPost, "/api/clients", body)
	assert.Equal(t, http.StatusConflict, ctx.Response.StatusCode())
	assert.Equal(t, string(domain.ErrCodeConflict), env.Code)
	assert.Equal(t, domain.ErrClientExists.Message, env.Error.Message)
	assert.NotEmpty(t, env.Error.RequestID)
}

func TestClientHandler_BusinessWithoutLegalRepresentativeIsBadRequest(t *testing.T) {
	f := newFixture(t)

	ctx, env := call(t, f.clients.Create, http.MethodPost, "/api/clients",
		`{"client_type":"EMPRESARIAL","person":{"document_type":"RUC","document_number":"20100070970"},"legal_representatives":[]}`)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, domain.ErrLegalRepresentativeRequired.Message, env.Error.Message)
	assert.Zero(t, f.calls.Total())
}

func TestClientHandler_GetAndDeleteByID(t *testing.T) {
	f := newFixture(t)

	_, env := call(t, f.clients.Create, http.MethodPost, "/api/clients",
		`{"client_type":"EMPRESARIAL","person":{"document_type":"RUC","document_number":"20100070970"},
		  "legal_representatives":[{"person":{"document_type":"DNI","document_number":"40000001"}}]}`)
	var created domain.ClientView
	require.NoError(t, json.Unmarshal(env.Data, &created))

	ctx, env := call(t, f.clients.Get, http.MethodGet, "/api/clients/"+created.ID, "", "id", created.ID)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	var got domain.ClientView
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.LegalRepresentatives, 1)
	assert.Equal(t, "40000001", got.LegalRepresentatives[0].Person.DocumentNumber)

	ctx, _ = call(t, f.clients.List, http.MethodGet, "/api/clients?documentNumber=20100070970", "")
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx, _ = call(t, f.clients.DeleteByID, http.MethodDelete, "/api/clients/"+created.ID, "", "id", created.ID)
	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())

	ctx, env = call(t, f.clients.Get, http.MethodGet, "/api/clients/"+created.ID, "", "id", created.ID)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, string(domain.ErrCodeNotFound), env.Code)
}

func TestClientHandler_SearchSkipsUnknownIDs(t *testing.T) {
	f := newFixture(t)

	_, env := call(t, f.clients.Create, http.MethodPost, "/api/clients",
		`{"client_type":"PERSONAL","person":{"document_type":"DNI","document_number":"70000007"}}`)
	var created domain.ClientView
	require.NoError(t, json.Unmarshal(env.Data, &created))

	ctx, env := call(t, f.clients.Search, http.MethodPost, "/api/clients/search",
		fmt.Sprintf(`{"ids":["nope","%s"]}`, created.ID))
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, 1, env.Meta.Count)
}

func TestPersonHandler_LookupByDocumentNumber(t *testing.T) {
	f := newFixture(t)

	ctx, _ := call(t, f.persons.List, http.MethodGet, "/api/persons?documentNumber=999", "")
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())

	call(t, f.persons.Create, http.MethodPost, "/api/persons", `{"document_type":"CE","document_number":"999"}`)

	ctx, env := call(t, f.persons.List, http.MethodGet, "/api/persons?documentNumber=999", "")
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	var person domain.Person
	require.NoError(t, json.Unmarshal(env.Data, &person))
	assert.Equal(t, domain.DocumentCE, person.DocumentType)

	ctx, env = call(t, f.persons.List, http.MethodGet, "/api/persons", "")
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, 1, env.Meta.Count)
}

func TestPersonHandler_RejectsMalformedBody(t *testing.T) {
	f := newFixture(t)

	ctx, env := call(t, f.persons.Create, http.MethodPost, "/api/persons", `{"document_number":`)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, "error", env.Status)
	assert.Zero(t, f.calls.Total())
}

func TestLinkHandler_BatchWithRepeatedDocumentIsBadRequest(t *testing.T) {
	f := newFixture(t)

	ctx, env := call(t, f.legal.CreateMany, http.MethodPost, "/api/legalrepresentatives/batch",
		`[{"person":{"document_number":"1"}},{"person":{"document_number":"1"}}]`)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, domain.ErrDuplicateDocumentInBatch.Message, env.Error.Message)
	assert.Zero(t, f.calls.Total())
}

func TestLinkHandler_CreateAndDelete(t *testing.T) {
	f := newFixture(t)

	ctx, env := call(t, f.legal.Create, http.MethodPost, "/api/legalrepresentatives",
		`{"person":{"document_type":"DNI","document_number":"55555555"}}`)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	var linked domain.LinkedPerson
	require.NoError(t, json.Unmarshal(env.Data, &linked))
	assert.True(t, linked.Status)

	ctx, _ = call(t, f.legal.Create, http.MethodPost, "/api/legalrepresentatives",
		`{"person":{"document_type":"DNI","document_number":"55555555"}}`)
	assert.Equal(t, http.StatusConflict, ctx.Response.StatusCode())

	ctx, _ = call(t, f.legal.Delete, http.MethodDelete, "/api/legalrepresentatives",
		`{"person":{"document_number":"55555555"}}`)
	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())

	ctx, _ = call(t, f.legal.Get, http.MethodGet, "/api/legalrepresentatives/"+linked.ID, "", "id", linked.ID)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}

type staticStatus monitor.Status

func (s staticStatus) GetStatus() monitor.Status { return monitor.Status(s) }

func TestHealthHandler(t *testing.T) {
	up := NewHealthHandler(staticStatus{Store: monitor.Check{Name: "memory", Online: true}}, nil, nil)
	ctx, _ := call(t, up.Check, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	down := NewHealthHandler(staticStatus{Store: monitor.Check{Name: "postgres"}}, nil, nil)
	ctx, env := call(t, down.Check, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, ctx.Response.StatusCode())
	assert.Equal(t, "DEGRADED", env.Code)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrClientNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrClientExists, http.StatusConflict, "CONFLICT"},
		{domain.ErrLegalRepresentativeRequired, http.StatusBadRequest, "INVALID"},
		{domain.StoreError("persons", errors.New("dup")), http.StatusInternalServerError, "STORE"},
		{fmt.Errorf("wrapped: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "INTERNAL"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := mapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}
