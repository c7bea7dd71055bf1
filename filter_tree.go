package spendapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fedspend/spendapi/taxonomy"
)

type filterTreeResponse struct {
	Results any `json:"results"`
}

// filterTree lists the children of the path in the taxonomy named in the URL. With a
// depth the children are expanded that many extra tiers.
func (api *API) filterTree(r *http.Request) (any, error) {
	name := r.PathValue("taxonomy")
	walker, ok := api.Walker(name)
	if !ok {
		return nil, notFound("taxonomy %s does not exist", name)
	}

	path := treePath(r.PathValue("path"))
	query := r.URL.Query()

	depth := 0
	if raw := query.Get("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > taxonomy.MaxDepth {
			return nil, invalidParameter("depth must be an integer between 0 and %d", taxonomy.MaxDepth)
		}
		depth = parsed
	}

	if depth == 0 {
		nodes, err := walker.Resolve(r.Context(), path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s filter tree: %w", name, err)
		}
		return filterTreeResponse{Results: taxonomy.Filter(nodes, query.Get("filter"))}, nil
	}

	tree, err := walker.ResolveTree(r.Context(), path, depth)
	if err != nil {
		return nil, fmt.Errorf("resolving %s filter tree: %w", name, err)
	}
	return filterTreeResponse{Results: taxonomy.FilterTree(tree, query.Get("filter"))}, nil
}

// treePath splits the wildcard part of a filter tree URL into its keys.
func treePath(raw string) []string {
	path := []string{}
	for _, key := range strings.Split(raw, "/") {
		if key != "" {
			path = append(path, key)
		}
	}
	return path
}
