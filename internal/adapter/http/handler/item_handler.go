package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	. "itemtracker/internal/adapter/http/helper"
	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/model/request"
	"itemtracker/internal/core/model/response"
	"itemtracker/internal/core/port"
	"itemtracker/internal/core/util"
	"itemtracker/pkg/logger"
)

type ItemHandler struct {
	svc       port.ItemService
	validator port.Validator
	limits    util.ListLimits
	Logger    *logger.LokiLogger
}

func NewItemHandler(svc port.ItemService, validator port.Validator, limits util.ListLimits, log *logger.LokiLogger) *ItemHandler {
	if log == nil {
		log = logger.Nop()
	}

	return &ItemHandler{svc: svc, validator: validator, limits: limits, Logger: log}
}

// GetAll lists every user's items. Public.
func (h *ItemHandler) GetAll(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.items.GetAll")
	defer span.End()

	query, err := util.ParseListQuery(c, h.limits)

	if err != nil {
		SendBadRequestError(c, "query", err.Error())
		return
	}

	page, err := h.svc.ListAll(ctx, query)

	if err != nil {
		fail(ctx, c, span, h.Logger, "Error listing items", err)
		return
	}

	h.sendPage(c, page)
}

// List returns the caller's items.
func (h *ItemHandler) List(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.items.List")
	defer span.End()

	query, err := util.ParseListQuery(c, h.limits)

	if err != nil {
		SendBadRequestError(c, "query", err.Error())
		return
	}

	span.SetAttributes(
		attribute.Int("user.id", userID(c)),
		attribute.Int("items.offset", query.Offset),
		attribute.Int("items.limit", query.Limit),
	)

	page, err := h.svc.ListForOwner(ctx, userID(c), query)

	if err != nil {
		fail(ctx, c, span, h.Logger, "Error listing items", err)
		return
	}

	h.sendPage(c, page)
}

func (h *ItemHandler) sendPage(c *gin.Context, page domain.Page) {
	c.Header("Content-Range", page.ContentRange())
	SendSuccess(c, http.StatusOK, response.NewItemListResponse(page.Items))
}

func (h *ItemHandler) Create(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.items.Create")
	defer span.End()

	params, err := util.BindJSON[request.ItemCreateRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := h.validator.ValidateStruct(params); err != nil {
		fail(ctx, c, span, h.Logger, "Error validating item", err)
		return
	}

	item, err := h.svc.Create(ctx, userID(c), params.ToDomain())

	if err != nil {
		fail(ctx, c, span, h.Logger, "Error creating item", err)
		return
	}

	h.Logger.Ctx(ctx).Info("Item#create", zap.Int("item_id", item.ID), zap.Int("user_id", item.UserId))

	SendSuccess(c, http.StatusCreated, response.NewItemResponse(item))
}

func (h *ItemHandler) Get(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.items.Get")
	defer span.End()

	id, ok := pathID(c)

	if !ok {
		SendNotFoundError(c, "Item not found")
		return
	}

	item, err := h.svc.Get(ctx, userID(c), id)

	if err != nil {
		fail(ctx, c, span, h.Logger, "Error getting item", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewItemResponse(item))
}

func (h *ItemHandler) Update(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.items.Update")
	defer span.End()

	id, ok := pathID(c)

	if !ok {
		SendNotFoundError(c, "Item not found")
		return
	}

	params, err := util.BindJSON[request.ItemUpdateRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	patch, err := params.ToPatch()

	if err != nil {
		fail(ctx, c, span, h.Logger, "Error validating item", err)
		return
	}

	item, err := h.svc.Update(ctx, userID(c), id, patch)

	if err != nil {
		fail(ctx, c, span, h.Logger, "Error updating item", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewItemResponse(item))
}

func (h *ItemHandler) Delete(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.items.Delete")
	defer span.End()

	id, ok := pathID(c)

	if !ok {
		SendNotFoundError(c, "Item not found")
		return
	}

	if err := h.svc.Delete(ctx, userID(c), id); err != nil {
		fail(ctx, c, span, h.Logger, "Error deleting item", err)
		return
	}

	SendSuccess(c, http.StatusOK, response.DeleteResponse{Success: true})
}
