package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/api/metrics"
	"github.com/sadhana-school/portal/internal/core/service"
)

type ChatHandler struct {
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewChatHandler(log zerolog.Logger, m *metrics.Metrics) *ChatHandler {
	return &ChatHandler{log: log, metrics: m}
}

type chatRequest struct {
	Message string `json:"message"`
}

type quickQuestionsResponse struct {
	Questions []string `json:"questions"`
}

// Post answers one chat message, falling back to canned replies when the
// assistant is unavailable.
//
// @Summary      Chat
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      chatRequest  true  "User message"
// @Success      200   {object}  service.ChatReply
// @Failure      422   {object}  map[string]string
// @Router       /chat [post]
func (h *ChatHandler) Post(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req chatRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	reply, err := service.NewChatService(ws.API, h.log).Reply(c.Request().Context(), req.Message)
	if err != nil {
		return err
	}
	h.metrics.ChatRepliesTotal.WithLabelValues(reply.Source).Inc()
	return c.JSON(http.StatusOK, reply)
}

// QuickQuestions lists the suggested opening questions.
//
// @Summary      Suggested chat questions
// @Tags         chat
// @Produce      json
// @Success      200  {object}  quickQuestionsResponse
// @Router       /chat/questions [get]
func (h *ChatHandler) QuickQuestions(c echo.Context) error {
	return c.JSON(http.StatusOK, quickQuestionsResponse{Questions: service.QuickQuestions})
}
