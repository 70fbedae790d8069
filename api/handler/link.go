package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clients/api/transport"
	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/pkg/httpcontext"
	linkedUC "github.com/fastygo/clients/usecase/linked"
)

// LinkHandler serves one link collection: legal representatives or authorized signatories.
type LinkHandler struct {
	baseHandler
	uc *linkedUC.UseCase
}

func NewLinkHandler(uc *linkedUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *LinkHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkHandler{
		baseHandler: newBaseHandler(adapter, logger.With(zap.String("collection", string(uc.Kind())))),
		uc:          uc,
	}
}

func (h *LinkHandler) Create(ctx *fasthttp.RequestCtx) {
	in, ok := h.parseLink(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, in)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

func (h *LinkHandler) CreateMany(ctx *fasthttp.RequestCtx) {
	var req []transport.LinkedPersonRequest
	if !h.decode(ctx, &req) {
		return
	}
	in, err := transport.LinkedPersonsToDomain(req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateMany(stdCtx, in)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewList(created))
}

func (h *LinkHandler) Update(ctx *fasthttp.RequestCtx) {
	in, ok := h.parseLink(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, in)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// Delete resolves the record from the body: by id, else by the person's document number.
func (h *LinkHandler) Delete(ctx *fasthttp.RequestCtx) {
	in, ok := h.parseLink(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, in); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

func (h *LinkHandler) DeleteByID(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteByID(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

func (h *LinkHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if doc := documentNumberQuery(ctx); doc != "" {
		linked, found, err := h.uc.FindByDocumentNumber(stdCtx, doc)
		switch {
		case err != nil:
			h.respondError(ctx, err)
		case !found:
			h.respondError(ctx, h.uc.Kind().NotFound())
		default:
			h.respondSuccess(ctx, http.StatusOK, linked)
		}
		return
	}

	all, err := h.uc.FindAll(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondList(h.baseHandler, ctx, all)
}

func (h *LinkHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	linked, err := h.uc.FindByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, linked)
}

func (h *LinkHandler) Search(ctx *fasthttp.RequestCtx) {
	var req transport.IDListRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	linked, err := h.uc.FindAllByIDList(stdCtx, req.IDs)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondList(h.baseHandler, ctx, linked)
}

func (h *LinkHandler) parseLink(ctx *fasthttp.RequestCtx) (*domain.LinkedPerson, bool) {
	var req transport.LinkedPersonRequest
	if !h.decode(ctx, &req) {
		return nil, false
	}
	in, err := req.ToDomain()
	if err != nil {
		h.respondError(ctx, err)
		return nil, false
	}
	return in, true
}
