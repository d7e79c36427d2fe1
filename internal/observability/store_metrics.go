package observability

import (
	"encoding/json"
	"errors"
	"io/fs"
	"strings"
	"time"
)

// ObserveStore wraps one logical store operation (load/save of a whole
// collection) in latency and error metrics.
func (p *Prom) ObserveStore(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.StoreErrorsTotal.WithLabelValues(op, classifyStoreErr(err)).Inc()
	}
	p.StoreOpDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

func classifyStoreErr(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &syntaxErr) || errors.As(err, &typeErr):
		return "corrupt"
	case errors.Is(err, fs.ErrPermission):
		return "permission"
	case errors.Is(err, fs.ErrNotExist):
		return "not_exist"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no space"):
		return "disk_full"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	default:
		return "unknown"
	}
}
