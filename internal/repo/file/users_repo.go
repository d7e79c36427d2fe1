package file

import (
	"context"
	"math"

	"blogd/internal/domain/user"
	"blogd/internal/store"
)

const usersResource = "users"

type UsersRepo struct {
	st *store.Store
}

func NewUsersRepo(st *store.Store) *UsersRepo {
	return &UsersRepo{st: st}
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	var users []user.User

	if err := r.st.Load(usersResource, &users); err != nil {
		return nil, err
	}

	if users == nil {
		users = []user.User{}
	}

	return users, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	users, err := r.List(ctx)

	if err != nil {
		return user.User{}, err
	}

	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	users, err := r.List(ctx)

	if err != nil {
		return user.User{}, err
	}

	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

// Page slices the collection by offset. An out-of-range page yields an
// empty items slice, not an error.
func (r *UsersRepo) Page(ctx context.Context, page, limit int) ([]user.User, int, int, error) {
	users, err := r.List(ctx)

	if err != nil {
		return nil, 0, 0, err
	}

	totalItems := len(users)
	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	start := (page - 1) * limit
	end := start + limit

	if start >= totalItems {
		return []user.User{}, totalItems, totalPages, nil
	}

	if end > totalItems {
		end = totalItems
	}

	return users[start:end], totalItems, totalPages, nil
}

// Create appends a new user. The caller supplies the already-hashed
// password; ids are assigned from max(existing)+1 under the resource
// lock, so they stay unique even across concurrent creates.
func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error) {
	var created user.User

	err := r.st.WithLock(usersResource, func() error {
		users, err := r.List(ctx)

		if err != nil {
			return err
		}

		created = user.User{
			ID:       nextUserID(users),
			Name:     name,
			Email:    email,
			Password: passwordHash,
			Role:     role,
		}

		users = append(users, created)

		return r.st.Save(usersResource, users)
	})

	if err != nil {
		return user.User{}, err
	}

	return created, nil
}

// Update applies a partial update: nil fields keep their previous
// value. Password, when set, must already be hashed by the caller.
func (r *UsersRepo) Update(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error) {
	var updated user.User

	err := r.st.WithLock(usersResource, func() error {
		users, err := r.List(ctx)

		if err != nil {
			return err
		}

		idx := indexOfUser(users, id)

		if idx == -1 {
			return user.ErrNotFound
		}

		u := users[idx]

		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.Password != nil {
			u.Password = *req.Password
		}
		if req.Role != nil {
			u.Role = *req.Role
		}

		users[idx] = u
		updated = u

		return r.st.Save(usersResource, users)
	})

	if err != nil {
		return user.User{}, err
	}

	return updated, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) (user.User, error) {
	var removed user.User

	err := r.st.WithLock(usersResource, func() error {
		users, err := r.List(ctx)

		if err != nil {
			return err
		}

		idx := indexOfUser(users, id)

		if idx == -1 {
			return user.ErrNotFound
		}

		removed = users[idx]
		users = append(users[:idx], users[idx+1:]...)

		return r.st.Save(usersResource, users)
	})

	if err != nil {
		return user.User{}, err
	}

	return removed, nil
}

func indexOfUser(users []user.User, id int64) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}

	return -1
}

func nextUserID(users []user.User) int64 {
	var max int64

	for _, u := range users {
		if u.ID > max {
			max = u.ID
		}
	}

	return max + 1
}
