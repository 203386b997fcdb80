package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itemboard/internal/app"
	"itemboard/internal/transport/http/response"
)

// APIItemHandler serves the JSON item surface over the same item workflow
// as the HTML pages.
type APIItemHandler struct {
	itemService *app.ItemService
}

type APIItemRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required,min=30"`
}

func NewAPIItemHandler(itemService *app.ItemService) *APIItemHandler {
	return &APIItemHandler{itemService: itemService}
}

func (h *APIItemHandler) ListPublic(c *gin.Context) {
	items, err := h.itemService.ListPublic()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list items failed")
		return
	}
	response.OK(c, items)
}

func (h *APIItemHandler) ListMine(c *gin.Context) {
	username := usernameFromContext(c)
	if username == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	items, err := h.itemService.ListMine(username)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list items failed")
		return
	}
	response.OK(c, items)
}

func (h *APIItemHandler) Create(c *gin.Context) {
	username := usernameFromContext(c)
	if username == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req APIItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), app.CreateItemInput{
		Author: username,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create item failed")
		return
	}

	response.OK(c, item)
}

func (h *APIItemHandler) Update(c *gin.Context) {
	username := usernameFromContext(c)
	if username == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	id, ok := apiItemID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid item id")
		return
	}

	var req APIItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	err := h.itemService.Update(c.Request.Context(), id, username, req.Title, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNotAuthorized):
			response.Error(c, http.StatusForbidden, response.CodeNotAuthorized, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update item failed")
		}
		return
	}

	response.OK(c, gin.H{"updated_item_id": id})
}

func (h *APIItemHandler) Delete(c *gin.Context) {
	username := usernameFromContext(c)
	if username == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	id, ok := apiItemID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid item id")
		return
	}

	err := h.itemService.Delete(c.Request.Context(), id, username)
	if err != nil {
		if errors.Is(err, app.ErrNotAuthorized) {
			response.Error(c, http.StatusForbidden, response.CodeNotAuthorized, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete item failed")
		return
	}

	response.OK(c, gin.H{"deleted_item_id": id})
}

func apiItemID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}
