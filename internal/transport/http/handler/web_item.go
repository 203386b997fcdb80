package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itemboard/internal/app"
	"itemboard/internal/pkg/logger"
)

// WebItemHandler serves the server-rendered item pages: the public listing,
// the per-user dashboard and the create/edit/delete forms.
type WebItemHandler struct {
	itemService *app.ItemService
}

type itemForm struct {
	Title string `form:"title" binding:"required,max=200"`
	Body  string `form:"body" binding:"required,min=30"`
}

func NewWebItemHandler(itemService *app.ItemService) *WebItemHandler {
	return &WebItemHandler{itemService: itemService}
}

// Index lists every item, newest first. No items is a notice, not an error.
func (h *WebItemHandler) Index(c *gin.Context) {
	items, err := h.itemService.ListPublic()
	if err != nil {
		logger.Get().Error().Err(err).Msg("list public items failed")
		c.HTML(http.StatusInternalServerError, "index.html", gin.H{
			"Msg":      "Something went wrong, please try again",
			"Username": usernameFromContext(c),
		})
		return
	}

	data := gin.H{
		"Items":    items,
		"Flash":    popFlash(c),
		"Username": usernameFromContext(c),
	}
	if len(items) == 0 {
		data["Msg"] = "No Items Found"
	}
	c.HTML(http.StatusOK, "index.html", data)
}

// Dashboard lists the logged-in user's own items.
func (h *WebItemHandler) Dashboard(c *gin.Context) {
	username := usernameFromContext(c)

	items, err := h.itemService.ListMine(username)
	if err != nil {
		logger.Get().Error().Err(err).Str("username", username).Msg("list own items failed")
		c.HTML(http.StatusInternalServerError, "dashboard.html", gin.H{
			"Msg":      "Something went wrong, please try again",
			"Username": username,
		})
		return
	}

	data := gin.H{
		"Items":    items,
		"Flash":    popFlash(c),
		"Username": username,
	}
	if len(items) == 0 {
		data["Msg"] = "No Items Found"
	}
	c.HTML(http.StatusOK, "dashboard.html", data)
}

func (h *WebItemHandler) ShowCreate(c *gin.Context) {
	c.HTML(http.StatusOK, "item_form.html", gin.H{
		"Action":   "/items/new",
		"Heading":  "Add Item",
		"Errors":   map[string]string{},
		"Form":     itemForm{},
		"Username": usernameFromContext(c),
	})
}

func (h *WebItemHandler) Create(c *gin.Context) {
	username := usernameFromContext(c)

	var form itemForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "item_form.html", gin.H{
			"Action":   "/items/new",
			"Heading":  "Add Item",
			"Errors":   fieldErrors(err),
			"Form":     form,
			"Username": username,
		})
		return
	}

	_, err := h.itemService.Create(c.Request.Context(), app.CreateItemInput{
		Author: username,
		Title:  form.Title,
		Body:   form.Body,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			c.HTML(http.StatusBadRequest, "item_form.html", gin.H{
				"Action":   "/items/new",
				"Heading":  "Add Item",
				"Errors":   map[string]string{"form": err.Error()},
				"Form":     form,
				"Username": username,
			})
			return
		}
		logger.Get().Error().Err(err).Str("username", username).Msg("create item failed")
		c.HTML(http.StatusInternalServerError, "item_form.html", gin.H{
			"Action":   "/items/new",
			"Heading":  "Add Item",
			"Errors":   map[string]string{"form": "Something went wrong, please try again"},
			"Form":     form,
			"Username": username,
		})
		return
	}

	setFlash(c, "success", "Item Created")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// ShowEdit fetches the item for its author. A missing item and someone
// else's item are indistinguishable: both bounce back to the dashboard.
func (h *WebItemHandler) ShowEdit(c *gin.Context) {
	username := usernameFromContext(c)

	id, ok := itemIDParam(c)
	if !ok {
		h.rejectNotAuthorized(c, "edit")
		return
	}

	item, err := h.itemService.GetForEdit(id, username)
	if err != nil {
		if errors.Is(err, app.ErrNotAuthorized) {
			h.rejectNotAuthorized(c, "edit")
			return
		}
		logger.Get().Error().Err(err).Uint("item_id", id).Msg("fetch item for edit failed")
		h.rejectNotAuthorized(c, "edit")
		return
	}

	c.HTML(http.StatusOK, "item_form.html", gin.H{
		"Action":   "/items/" + strconv.FormatUint(uint64(id), 10) + "/edit",
		"Heading":  "Edit Item",
		"Errors":   map[string]string{},
		"Form":     itemForm{Title: item.Title, Body: item.Body},
		"Username": username,
	})
}

func (h *WebItemHandler) Edit(c *gin.Context) {
	username := usernameFromContext(c)

	id, ok := itemIDParam(c)
	if !ok {
		h.rejectNotAuthorized(c, "edit")
		return
	}
	action := "/items/" + strconv.FormatUint(uint64(id), 10) + "/edit"

	var form itemForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "item_form.html", gin.H{
			"Action":   action,
			"Heading":  "Edit Item",
			"Errors":   fieldErrors(err),
			"Form":     form,
			"Username": username,
		})
		return
	}

	err := h.itemService.Update(c.Request.Context(), id, username, form.Title, form.Body)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNotAuthorized):
			h.rejectNotAuthorized(c, "edit")
		case errors.Is(err, app.ErrInvalidInput):
			c.HTML(http.StatusBadRequest, "item_form.html", gin.H{
				"Action":   action,
				"Heading":  "Edit Item",
				"Errors":   map[string]string{"form": err.Error()},
				"Form":     form,
				"Username": username,
			})
		default:
			logger.Get().Error().Err(err).Uint("item_id", id).Msg("update item failed")
			c.HTML(http.StatusInternalServerError, "item_form.html", gin.H{
				"Action":   action,
				"Heading":  "Edit Item",
				"Errors":   map[string]string{"form": "Something went wrong, please try again"},
				"Form":     form,
				"Username": username,
			})
		}
		return
	}

	setFlash(c, "success", "Item Updated")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *WebItemHandler) Delete(c *gin.Context) {
	username := usernameFromContext(c)

	id, ok := itemIDParam(c)
	if !ok {
		h.rejectNotAuthorized(c, "delete")
		return
	}

	err := h.itemService.Delete(c.Request.Context(), id, username)
	if err != nil {
		if errors.Is(err, app.ErrNotAuthorized) {
			h.rejectNotAuthorized(c, "delete")
			return
		}
		logger.Get().Error().Err(err).Uint("item_id", id).Msg("delete item failed")
		setFlash(c, "danger", "Something went wrong, please try again")
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	setFlash(c, "success", "Item Deleted")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *WebItemHandler) rejectNotAuthorized(c *gin.Context, action string) {
	setFlash(c, "danger", "Not authorized to "+action+" this item.")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func itemIDParam(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}
