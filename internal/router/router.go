package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/clients/api/handler"
)

type Handlers struct {
	Persons               *apiHandler.PersonHandler
	Clients               *apiHandler.ClientHandler
	LegalRepresentatives  *apiHandler.LinkHandler
	AuthorizedSignatories *apiHandler.LinkHandler
	Health                *apiHandler.HealthHandler
}

// New registers every route. Lookups by document number use ?documentNumber= on the collection
// path so they never compete with the {id} segment.
func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	const persons = "/api/persons"
	r.GET(persons, handlers.Persons.List)
	r.POST(persons, handlers.Persons.Create)
	r.PUT(persons, handlers.Persons.Update)
	r.DELETE(persons, handlers.Persons.Delete)
	r.POST(persons+"/batch", handlers.Persons.CreateMany)
	r.POST(persons+"/search", handlers.Persons.Search)
	r.GET(persons+"/{id}", handlers.Persons.Get)

	const clients = "/api/clients"
	r.GET(clients, handlers.Clients.List)
	r.POST(clients, handlers.Clients.Create)
	r.PUT(clients, handlers.Clients.Update)
	r.DELETE(clients, handlers.Clients.Delete)
	r.POST(clients+"/search", handlers.Clients.Search)
	r.GET(clients+"/{id}", handlers.Clients.Get)
	r.DELETE(clients+"/{id}", handlers.Clients.DeleteByID)

	registerLinks(r, "/api/legalrepresentatives", handlers.LegalRepresentatives)
	registerLinks(r, "/api/authorizedsignatories", handlers.AuthorizedSignatories)

	return r
}

func registerLinks(r *router.Router, base string, h *apiHandler.LinkHandler) {
	r.GET(base, h.List)
	r.POST(base, h.Create)
	r.PUT(base, h.Update)
	r.DELETE(base, h.Delete)
	r.POST(base+"/batch", h.CreateMany)
	r.POST(base+"/search", h.Search)
	r.GET(base+"/{id}", h.Get)
	r.DELETE(base+"/{id}", h.DeleteByID)
}

// Wrap applies middlewares so the first one listed runs outermost.
func Wrap(h fasthttp.RequestHandler, middlewares ...func(fasthttp.RequestHandler) fasthttp.RequestHandler) fasthttp.RequestHandler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
