package user

import "errors"

var ErrNotFound = errors.New("user not found")

// User is a persisted record. Password holds the bcrypt hash, never the
// plaintext; the stored document keeps it under "password" and the API
// returns it as-is, matching the on-disk layout.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// No binding tags here: presence of name/email is checked by hand so the
// error body stays a plain {"message": ...}.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Pointer fields so an omitted field keeps its previous value.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}
