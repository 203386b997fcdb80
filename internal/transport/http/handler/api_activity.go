package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itemboard/internal/model"
	"itemboard/internal/pkg/logger"
	"itemboard/internal/transport/http/response"
)

// ActivityLister is the read side of the activity trail.
// repository.ActivityEventRepository satisfies it.
type ActivityLister interface {
	ListRecent(limit int) ([]model.ActivityEvent, error)
}

// APIActivityHandler exposes the most recent item mutations recorded by the
// persist worker.
type APIActivityHandler struct {
	events ActivityLister
}

func NewAPIActivityHandler(events ActivityLister) *APIActivityHandler {
	return &APIActivityHandler{events: events}
}

func (h *APIActivityHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	events, err := h.events.ListRecent(limit)
	if err != nil {
		logger.Get().Error().Err(err).Msg("list activity events failed")
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list activity failed")
		return
	}
	response.OK(c, events)
}
