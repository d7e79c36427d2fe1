package file

import (
	"context"
	"time"

	"blogd/internal/domain/comment"
	"blogd/internal/store"
)

const commentsResource = "comments"

type CommentsRepo struct {
	st *store.Store
}

func NewCommentsRepo(st *store.Store) *CommentsRepo {
	return &CommentsRepo{st: st}
}

func (r *CommentsRepo) List(ctx context.Context) ([]comment.Comment, error) {
	var comments []comment.Comment

	if err := r.st.Load(commentsResource, &comments); err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []comment.Comment{}
	}

	return comments, nil
}

func (r *CommentsRepo) GetByID(ctx context.Context, id int64) (comment.Comment, error) {
	comments, err := r.List(ctx)

	if err != nil {
		return comment.Comment{}, err
	}

	for _, c := range comments {
		if c.ID == id {
			return c, nil
		}
	}

	return comment.Comment{}, comment.ErrNotFound
}

// ListByPost returns every comment attached to one post. An unknown
// post id yields an empty slice; there is no referential integrity
// between the resource files.
func (r *CommentsRepo) ListByPost(ctx context.Context, postID int64) ([]comment.Comment, error) {
	comments, err := r.List(ctx)

	if err != nil {
		return nil, err
	}

	out := []comment.Comment{}

	for _, c := range comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}

	return out, nil
}

func (r *CommentsRepo) Create(ctx context.Context, req comment.CreateCommentRequest, authorID int64) (comment.Comment, error) {
	var created comment.Comment

	err := r.st.WithLock(commentsResource, func() error {
		comments, err := r.List(ctx)

		if err != nil {
			return err
		}

		created = comment.Comment{
			ID:        nextCommentID(comments),
			PostID:    req.PostID,
			AuthorID:  authorID,
			Text:      req.Text,
			CreatedAt: time.Now().UTC(),
		}

		comments = append(comments, created)

		return r.st.Save(commentsResource, comments)
	})

	if err != nil {
		return comment.Comment{}, err
	}

	return created, nil
}

func (r *CommentsRepo) Delete(ctx context.Context, id int64) (comment.Comment, error) {
	var removed comment.Comment

	err := r.st.WithLock(commentsResource, func() error {
		comments, err := r.List(ctx)

		if err != nil {
			return err
		}

		idx := -1

		for i, c := range comments {
			if c.ID == id {
				idx = i
				break
			}
		}

		if idx == -1 {
			return comment.ErrNotFound
		}

		removed = comments[idx]
		comments = append(comments[:idx], comments[idx+1:]...)

		return r.st.Save(commentsResource, comments)
	})

	if err != nil {
		return comment.Comment{}, err
	}

	return removed, nil
}

func nextCommentID(comments []comment.Comment) int64 {
	var max int64

	for _, c := range comments {
		if c.ID > max {
			max = c.ID
		}
	}

	return max + 1
}
