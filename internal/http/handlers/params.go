package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// queryInt parses an integer query parameter, falling back to def when
// absent, unparsable, or non-positive.
func queryInt(ctx *gin.Context, key string, def int) int {
	v := ctx.Query(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}

	return n
}

// idParam parses the :id path parameter. ok is false when it is not an
// integer; a non-numeric id matches no record, so callers treat it as a
// plain miss.
func idParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

type pageEnvelope struct {
	Items      any `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}
