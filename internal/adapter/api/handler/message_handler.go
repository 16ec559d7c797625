package handler

import (
	"net/url"

	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/usecase"
	"esekoir/pkg/response"
)

type MessageHandler struct {
	messageUseCase *usecase.MessageUseCase
}

func NewMessageHandler(messageUseCase *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
	}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required,max=2000"`
	ListingID  string `json:"listing_id,omitempty"`
	SenderName string `json:"sender_name,omitempty" validate:"omitempty,max=50"`
}

// SendMessage accepts users and guests.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	msg, err := h.messageUseCase.SendMessage(c.Request().Context(), middleware.ActorFrom(c), usecase.SendMessageInput{
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		ListingID:  req.ListingID,
		SenderName: req.SenderName,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, msg)
}

func (h *MessageHandler) ListConversations(c echo.Context) error {
	conversations, err := h.messageUseCase.ListConversations(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversations)
}

func (h *MessageHandler) OpenConversation(c echo.Context) error {
	conversation, err := h.messageUseCase.OpenConversation(c.Request().Context(), middleware.UserID(c), partnerParam(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversation)
}

func (h *MessageHandler) DeleteConversation(c echo.Context) error {
	deleted, err := h.messageUseCase.DeleteConversation(c.Request().Context(), middleware.UserID(c), partnerParam(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"deleted": deleted})
}

func (h *MessageHandler) UnreadCount(c echo.Context) error {
	count, err := h.messageUseCase.UnreadCount(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"unread": count})
}

// partnerParam decodes the partner key, which for guests looks like
// "guest:Some Name".
func partnerParam(c echo.Context) string {
	raw := c.Param("partner")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
