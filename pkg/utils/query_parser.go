package utils

import (
	"net/url"
	"strconv"
	"strings"

	"gearguard/pkg/types"
)

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

// ParseFilterFromQuery turns query params of the form
// ?search=...&sort[created_at]=desc&filter[stage]=new&limit=10&offset=0
// into a types.Filter. Unknown keys are carried as-is; repositories whitelist
// the columns they accept.
func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filterReq.Limit = l
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			}
			filterReq.WithPagination = true
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
			filterReq.Offset = (p - 1) * filterReq.Limit
			filterReq.WithPagination = true
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
			filterReq.WithPagination = true
		}
	}

	filterReq.Search = values.Get("search")

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		switch {
		case strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]"):
			name := key[len("filter[") : len(key)-1]
			filterReq.Filter[name] = vals[0]
		case strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]"):
			name := key[len("sort[") : len(key)-1]
			filterReq.Sort[name] = vals[0]
		}
	}

	return filterReq
}
