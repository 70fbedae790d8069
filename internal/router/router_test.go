package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/clients/api/handler"
	"github.com/fastygo/clients/internal/infrastructure/monitor"
	"github.com/fastygo/clients/pkg/httpcontext"
	"github.com/fastygo/clients/repository/memory"
	clientUC "github.com/fastygo/clients/usecase/client"
	linkedUC "github.com/fastygo/clients/usecase/linked"
	personUC "github.com/fastygo/clients/usecase/person"
)

func newHandler(t *testing.T, ping monitor.PingFunc) fasthttp.RequestHandler {
	t.Helper()
	stores := memory.NewStores()
	adapter := httpcontext.NewAdapter(context.Background(), 0)

	persons := personUC.New(stores.Persons, nil)
	legal := linkedUC.New(stores.LegalRepresentatives, persons, nil, nil)
	signatories := linkedUC.New(stores.AuthorizedSignatories, persons, nil, nil)
	clients := clientUC.New(stores.Clients, persons, legal, signatories, nil, nil)

	mon := monitor.New("memory", ping, nil, nil, 0, nil)
	mon.Refresh()

	r := New(Handlers{
		Persons:               apiHandler.NewPersonHandler(persons, adapter, nil),
		Clients:               apiHandler.NewClientHandler(clients, adapter, nil),
		LegalRepresentatives:  apiHandler.NewLinkHandler(legal, adapter, nil),
		AuthorizedSignatories: apiHandler.NewLinkHandler(signatories, adapter, nil),
		Health:                apiHandler.NewHealthHandler(mon, adapter, nil),
	})
	return r.Handler
}

func online(context.Context) error { return nil }

type result struct {
	status int
	data   json.RawMessage
	code   string
}

func do(t *testing.T, h fasthttp.RequestHandler, method, uri, body string) result {
	t.Helper()
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBodyString(body)
	}
	h(&ctx)

	res := result{status: ctx.Response.StatusCode()}
	if raw := ctx.Response.Body(); len(raw) > 0 && json.Valid(raw) {
		var env struct {
			Code string          `json:"code"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &env))
		res.data, res.code = env.Data, env.Code
	}
	return res
}

func TestRouter_Health(t *testing.T) {
	res := do(t, newHandler(t, online), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, res.status)

	down := newHandler(t, func(context.Context) error { return errors.New("refused") })
	res = do(t, down, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.status)
	assert.Equal(t, "DEGRADED", res.code)
}

func TestRouter_PersonRoutes(t *testing.T) {
	h := newHandler(t, online)

	res := do(t, h, http.MethodPost, "/api/persons", `{"document_type":"DNI","document_number":"12345678","name":"Ana"}`)
	require.Equal(t, http.StatusCreated, res.status)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(res.data, &created))
	require.NotEmpty(t, created.ID)

	res = do(t, h, http.MethodGet, "/api/persons/"+created.ID, "")
	assert.Equal(t, http.StatusOK, res.status)

	res = do(t, h, http.MethodGet, "/api/persons?documentNumber=12345678", "")
	assert.Equal(t, http.StatusOK, res.status)

	res = do(t, h, http.MethodPost, "/api/persons/batch", `[{"document_number":"1"},{"document_number":"2"}]`)
	assert.Equal(t, http.StatusCreated, res.status)

	res = do(t, h, http.MethodPost, "/api/persons/search", `{"ids":["`+created.ID+`"]}`)
	assert.Equal(t, http.StatusOK, res.status)

	res = do(t, h, http.MethodGet, "/api/persons", "")
	assert.Equal(t, http.StatusOK, res.status)
	var all []json.RawMessage
	require.NoError(t, json.Unmarshal(res.data, &all))
	assert.Len(t, all, 3)
}

func TestRouter_LinkRoutesAreSeparateCollections(t *testing.T) {
	h := newHandler(t, online)

	res := do(t, h, http.MethodPost, "/api/legalrepresentatives", `{"person":{"document_number":"40000001"}}`)
	require.Equal(t, http.StatusCreated, res.status)
	var link struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(res.data, &link))

	res = do(t, h, http.MethodGet, "/api/authorizedsignatories/"+link.ID, "")
	assert.Equal(t, http.StatusNotFound, res.status)

	res = do(t, h, http.MethodDelete, "/api/legalrepresentatives/"+link.ID, "")
	assert.Equal(t, http.StatusNoContent, res.status)

	res = do(t, h, http.MethodGet, "/api/legalrepresentatives/"+link.ID, "")
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestRouter_ClientRoutes(t *testing.T) {
	h := newHandler(t, online)

	res := do(t, h, http.MethodPost, "/api/clients",
		`{"client_type":"EMPRESARIAL","person":{"document_type":"RUC","document_number":"20100070970"}}`)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = do(t, h, http.MethodPost, "/api/clients",
		`{"client_type":"PERSONAL","person":{"document_number":"12345678"}}`)
	require.Equal(t, http.StatusCreated, res.status)
	var client struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(res.data, &client))

	res = do(t, h, http.MethodGet, "/api/clients?documentNumber=12345678", "")
	assert.Equal(t, http.StatusOK, res.status)

	res = do(t, h, http.MethodDelete, "/api/clients/"+client.ID, "")
	assert.Equal(t, http.StatusNoContent, res.status)

	res = do(t, h, http.MethodGet, "/api/clients/"+client.ID, "")
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestRouter_UnknownRoute(t *testing.T) {
	res := do(t, newHandler(t, online), http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestWrap_FirstMiddlewareRunsOutermost(t *testing.T) {
	var order []string
	mark := func(name string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}
	h := Wrap(func(*fasthttp.RequestCtx) { order = append(order, "handler") }, mark("outer"), mark("inner"))

	h(&fasthttp.RequestCtx{})
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
