package routing

import (
	"sort"
	"strings"

	"github.com/goliatone/go-leadform/pkg/model"
)

// Search filters routes by a case-insensitive match on title or
// description. Title prefix matches sort first; otherwise the catalog order
// is kept.
func Search(routes []model.Link, query string, limit int, opts Options) []model.Link {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchAll {
			if len(routes) <= limit {
				return append([]model.Link{}, routes...)
			}
			return append([]model.Link{}, routes[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedRoute, 0, len(routes))
	for _, route := range routes {
		title := strings.ToLower(route.Title)
		if !strings.Contains(title, q) && !strings.Contains(strings.ToLower(route.Description), q) {
			continue
		}
		matches = append(matches, matchedRoute{
			route:    route,
			isPrefix: strings.HasPrefix(title, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].isPrefix && !matches[j].isPrefix
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]model.Link, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.route)
	}
	return out
}

type matchedRoute struct {
	route    model.Link
	isPrefix bool
}
