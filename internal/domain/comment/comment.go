package comment

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("comment not found")

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	AuthorID  int64     `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateCommentRequest struct {
	PostID int64  `json:"postId" binding:"required"`
	Text   string `json:"text" binding:"required,min=1,max=2000"`
}
