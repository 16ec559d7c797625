package handler

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/domain/entity"
	"esekoir/internal/usecase"
	"esekoir/pkg/response"
)

type CommentHandler struct {
	commentUseCase *usecase.CommentUseCase
}

func NewCommentHandler(commentUseCase *usecase.CommentUseCase) *CommentHandler {
	return &CommentHandler{
		commentUseCase: commentUseCase,
	}
}

type postCommentRequest struct {
	Content   string `json:"content" validate:"required,max=1000"`
	GuestName string `json:"guest_name,omitempty" validate:"omitempty,max=50"`
}

type reactRequest struct {
	Kind string `json:"kind" validate:"required,oneof=like dislike"`
}

// ListComments returns a handler for the threads hanging off kind, keyed
// by the path parameter param.
func (h *CommentHandler) ListComments(kind entity.CommentContextType, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		cctx := entity.CommentContext{Type: kind, Key: c.Param(param)}
		threads, err := h.commentUseCase.ListComments(c.Request().Context(), cctx, middleware.ActorFrom(c))
		if err != nil {
			return response.Error(c, err)
		}
		return response.Success(c, threads)
	}
}

func (h *CommentHandler) PostComment(kind entity.CommentContextType, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req postCommentRequest
		if err := c.Bind(&req); err != nil {
			return response.Error(c, err)
		}
		if err := c.Validate(&req); err != nil {
			return response.Error(c, err)
		}

		comment, err := h.commentUseCase.PostComment(c.Request().Context(), middleware.ActorFrom(c), usecase.PostCommentInput{
			Context:   entity.CommentContext{Type: kind, Key: c.Param(param)},
			Content:   req.Content,
			GuestName: req.GuestName,
		})
		if err != nil {
			return response.Error(c, err)
		}
		return response.Created(c, comment)
	}
}

func (h *CommentHandler) Reply(c echo.Context) error {
	var req postCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	reply, err := h.commentUseCase.Reply(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), usecase.ReplyInput{
		Content:   req.Content,
		GuestName: req.GuestName,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, reply)
}

func (h *CommentHandler) React(c echo.Context) error {
	var req reactRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.commentUseCase.React(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), entity.ReactionKind(req.Kind))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

func (h *CommentHandler) DeleteComment(c echo.Context) error {
	if err := h.commentUseCase.DeleteComment(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Comment deleted"})
}
