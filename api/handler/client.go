package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clients/api/transport"
	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/pkg/httpcontext"
	clientUC "github.com/fastygo/clients/usecase/client"
)

type ClientHandler struct {
	baseHandler
	uc *clientUC.UseCase
}

func NewClientHandler(uc *clientUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create client with its person and representatives
// @Tags clients
// @Router /api/clients [post]
func (h *ClientHandler) Create(ctx *fasthttp.RequestCtx) {
	in, ok := h.parseClient(ctx)
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

// @Summary Update client
// @Tags clients
// @Router /api/clients [put]
func (h *ClientHandler) Update(ctx *fasthttp.RequestCtx) {
	in, ok := h.parseClient(ctx)
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

// @Summary Delete client resolved from the body
// @Tags clients
// @Router /api/clients [delete]
func (h *ClientHandler) Delete(ctx *fasthttp.RequestCtx) {
	in, ok := h.parseClient(ctx)
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

// @Summary Delete client by id
// @Tags clients
// @Router /api/clients/{id} [delete]
func (h *ClientHandler) DeleteByID(ctx *fasthttp.RequestCtx) {
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

// @Summary List clients, or find one by ?documentNumber=
// @Tags clients
// @Router /api/clients [get]
func (h *ClientHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if doc := documentNumberQuery(ctx); doc != "" {
		view, err := h.uc.FindByDocumentNumber(stdCtx, doc)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		h.respondSuccess(ctx, http.StatusOK, view)
		return
	}

	views, err := h.uc.FindAll(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondList(h.baseHandler, ctx, views)
}

// @Summary Get client by id
// @Tags clients
// @Router /api/clients/{id} [get]
func (h *ClientHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, err := h.uc.FindByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

// @Summary Find clients by id list
// @Tags clients
// @Router /api/clients/search [post]
func (h *ClientHandler) Search(ctx *fasthttp.RequestCtx) {
	var req transport.IDListRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	views, err := h.uc.FindAllByIDList(stdCtx, req.IDs)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	respondList(h.baseHandler, ctx, views)
}

func (h *ClientHandler) parseClient(ctx *fasthttp.RequestCtx) (*domain.ClientView, bool) {
	var req transport.ClientRequest
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
