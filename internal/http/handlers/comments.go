package handlers

import (
	"context"
	"errors"
	"net/http"

	"blogd/internal/domain/comment"
	"blogd/internal/http/middlewares"

	"github.com/gin-gonic/gin"
)

type CommentsRepository interface {
	ListByPost(ctx context.Context, postID int64) ([]comment.Comment, error)
	GetByID(ctx context.Context, id int64) (comment.Comment, error)
	Create(ctx context.Context, req comment.CreateCommentRequest, authorID int64) (comment.Comment, error)
	Delete(ctx context.Context, id int64) (comment.Comment, error)
}

type CommentsHandler struct {
	repo CommentsRepository
}

func NewCommentsHandler(repo CommentsRepository) *CommentsHandler {
	return &CommentsHandler{repo: repo}
}

// ListByPost returns the comments for one post. An unknown post id is
// an empty list, not an error: resource files carry no references.
func (h *CommentsHandler) ListByPost(ctx *gin.Context) {
	postID, ok := idParam(ctx)

	if !ok {
		ctx.JSON(http.StatusOK, []comment.Comment{})
		return
	}

	comments, err := h.repo.ListByPost(ctx.Request.Context(), postID)

	if err != nil {
		RespondInternal(ctx, "Could not list comments")
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

func (h *CommentsHandler) Create(ctx *gin.Context) {
	var req comment.CreateCommentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	authorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	created, err := h.repo.Create(ctx.Request.Context(), req, authorID)

	if err != nil {
		RespondInternal(ctx, "Could not create comment")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *CommentsHandler) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		RespondNotFound(ctx, "Comment not found")
		return
	}

	existing, err := h.repo.GetByID(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, comment.ErrNotFound) {
			RespondNotFound(ctx, "Comment not found")
			return
		}
		RespondInternal(ctx, "Could not delete comment")
		return
	}

	if !canModify(ctx, existing.AuthorID) {
		ctx.Status(http.StatusForbidden)
		return
	}

	removed, err := h.repo.Delete(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, comment.ErrNotFound) {
			RespondNotFound(ctx, "Comment not found")
			return
		}
		RespondInternal(ctx, "Could not delete comment")
		return
	}

	ctx.JSON(http.StatusOK, removed)
}
