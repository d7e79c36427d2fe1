package file

import (
	"context"
	"math"
	"time"

	"blogd/internal/domain/post"
	"blogd/internal/store"
)

const postsResource = "posts"

type PostsRepo struct {
	st *store.Store
}

func NewPostsRepo(st *store.Store) *PostsRepo {
	return &PostsRepo{st: st}
}

func (r *PostsRepo) List(ctx context.Context) ([]post.Post, error) {
	var posts []post.Post

	if err := r.st.Load(postsResource, &posts); err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []post.Post{}
	}

	return posts, nil
}

func (r *PostsRepo) GetByID(ctx context.Context, id int64) (post.Post, error) {
	posts, err := r.List(ctx)

	if err != nil {
		return post.Post{}, err
	}

	for _, p := range posts {
		if p.ID == id {
			return p, nil
		}
	}

	return post.Post{}, post.ErrNotFound
}

func (r *PostsRepo) Page(ctx context.Context, page, limit int) ([]post.Post, int, int, error) {
	posts, err := r.List(ctx)

	if err != nil {
		return nil, 0, 0, err
	}

	totalItems := len(posts)
	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	start := (page - 1) * limit
	end := start + limit

	if start >= totalItems {
		return []post.Post{}, totalItems, totalPages, nil
	}

	if end > totalItems {
		end = totalItems
	}

	return posts[start:end], totalItems, totalPages, nil
}

func (r *PostsRepo) Create(ctx context.Context, req post.CreatePostRequest, authorID int64) (post.Post, error) {
	var created post.Post

	err := r.st.WithLock(postsResource, func() error {
		posts, err := r.List(ctx)

		if err != nil {
			return err
		}

		now := time.Now().UTC()

		created = post.Post{
			ID:        nextPostID(posts),
			Title:     req.Title,
			Body:      req.Body,
			AuthorID:  authorID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		posts = append(posts, created)

		return r.st.Save(postsResource, posts)
	})

	if err != nil {
		return post.Post{}, err
	}

	return created, nil
}

func (r *PostsRepo) Update(ctx context.Context, id int64, req post.UpdatePostRequest) (post.Post, error) {
	var updated post.Post

	err := r.st.WithLock(postsResource, func() error {
		posts, err := r.List(ctx)

		if err != nil {
			return err
		}

		idx := indexOfPost(posts, id)

		if idx == -1 {
			return post.ErrNotFound
		}

		p := posts[idx]

		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Body != nil {
			p.Body = *req.Body
		}
		p.UpdatedAt = time.Now().UTC()

		posts[idx] = p
		updated = p

		return r.st.Save(postsResource, posts)
	})

	if err != nil {
		return post.Post{}, err
	}

	return updated, nil
}

func (r *PostsRepo) Delete(ctx context.Context, id int64) (post.Post, error) {
	var removed post.Post

	err := r.st.WithLock(postsResource, func() error {
		posts, err := r.List(ctx)

		if err != nil {
			return err
		}

		idx := indexOfPost(posts, id)

		if idx == -1 {
			return post.ErrNotFound
		}

		removed = posts[idx]
		posts = append(posts[:idx], posts[idx+1:]...)

		return r.st.Save(postsResource, posts)
	})

	if err != nil {
		return post.Post{}, err
	}

	return removed, nil
}

func indexOfPost(posts []post.Post, id int64) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}

	return -1
}

func nextPostID(posts []post.Post) int64 {
	var max int64

	for _, p := range posts {
		if p.ID > max {
			max = p.ID
		}
	}

	return max + 1
}
