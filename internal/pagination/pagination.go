// Package pagination derives an offset/limit window from URL query parameters.
package pagination

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/model"
)

// Query parameter names.
const (
	ParamOffset = "offset"
	ParamLimit  = "limit"
)

var errNegative = errors.New("must not be negative")

// Extract reads "offset" (default 0) and "limit" (default: no limit) from params.
// Both must be non-negative integers; any failure yields a *errs.PaginationError.
func Extract(params url.Values) (model.Pagination, error) {
	var p model.Pagination

	if params.Has(ParamOffset) {
		v, err := parse(ParamOffset, params.Get(ParamOffset))
		if err != nil {
			return model.Pagination{}, err
		}
		p.Offset = v
	}

	if params.Has(ParamLimit) {
		v, err := parse(ParamLimit, params.Get(ParamLimit))
		if err != nil {
			return model.Pagination{}, err
		}
		p.Limit = &v
	}

	return p, nil
}

func parse(param, raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &errs.PaginationError{Param: param, Value: raw, Err: err}
	}
	if v < 0 {
		return 0, &errs.PaginationError{Param: param, Value: raw, Err: errNegative}
	}
	return v, nil
}

// Window applies p to a slice length n and returns the [start, end) bounds.
// Offsets past n collapse to an empty window.
func Window(p model.Pagination, n int) (start, end int) {
	start = n
	if p.Offset < int64(n) {
		start = int(p.Offset)
	}
	end = n
	if p.Limit != nil && *p.Limit < int64(end-start) {
		end = start + int(*p.Limit)
	}
	return start, end
}
