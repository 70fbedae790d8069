package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clients/api/transport"
	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/pkg/httpcontext"
	personUC "github.com/fastygo/clients/usecase/person"
)

type PersonHandler struct {
	baseHandler
	uc *personUC.UseCase
}

func NewPersonHandler(uc *personUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *PersonHandler {
	return &PersonHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create person
// @Tags persons
// @Router /api/persons [post]
func (h *PersonHandler) Create(ctx *fasthttp.RequestCtx) {
	person, ok := h.parsePerson(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, person)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Create persons in one batch
// @Tags persons
// @Router /api/persons/batch [post]
func (h *PersonHandler) CreateMany(ctx *fasthttp.RequestCtx) {
	var req []transport.PersonRequest
	if !h.decode(ctx, &req) {
		return
	}
	persons := make([]domain.Person, 0, len(req))
	for i := range req {
		person, err := req[i].ToDomain()
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		persons = append(persons, *person)
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateMany(stdCtx, persons)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewList(created))
}

// @Summary Update person by document number
// @Tags persons
// @Router /api/persons [put]
func (h *PersonHandler) Update(ctx *fasthttp.RequestCtx) {
	person, ok := h.parsePerson(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, person)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete person by document number
// @Tags persons
// @Router /api/persons [delete]
func (h *PersonHandler) Delete(ctx *fasthttp.RequestCtx) {
	person, ok := h.parsePerson(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, person); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary List persons, or find one by ?documentNumber=
// @Tags persons
// @Router /api/persons [get]
func (h *PersonHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if doc := documentNumberQuery(ctx); doc != "" {
		person, found, err := h.uc.FindByDocumentNumber(stdCtx, doc)
		switch {
		case err != nil:
			h.respondError(ctx, err)
		case !found:
			h.respondError(ctx, domain.ErrPersonNotFound)
		default:
			h.respondSuccess(ctx, http.StatusOK, person)
		}
		return
	}

	persons, err := h.uc.FindAll(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondList(h.baseHandler, ctx, persons)
}

// @Summary Get person by id
// @Tags persons
// @Router /api/persons/{id} [get]
func (h *PersonHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	person, err := h.uc.FindByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, person)
}

// @Summary Find persons by id list
// @Tags persons
// @Router /api/persons/search [post]
func (h *PersonHandler) Search(ctx *fasthttp.RequestCtx) {
	var req transport.IDListRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	persons, err := h.uc.FindAllByIDList(stdCtx, req.IDs)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondList(h.baseHandler, ctx, persons)
}

func (h *PersonHandler) parsePerson(ctx *fasthttp.RequestCtx) (*domain.Person, bool) {
	var req transport.PersonRequest
	if !h.decode(ctx, &req) {
		return nil, false
	}
	person, err := req.ToDomain()
	if err != nil {
		h.respondError(ctx, err)
		return nil, false
	}
	return person, true
}
