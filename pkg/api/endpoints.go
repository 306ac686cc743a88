package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/hazyhaar/catmatch/pkg/catalog"
	"github.com/hazyhaar/catmatch/pkg/kit"
	"github.com/hazyhaar/catmatch/pkg/rank"
)

// Shared request/response types used by both HTTP and MCP transports.

var (
	errMissingCode = errors.New("missing code")
	errUnknownCode = errors.New("unknown code")
	errNotLoaded   = errors.New("catalog not loaded")
)

type searchReq struct {
	Query string
	Limit int
}

type explainReq struct {
	Query string
	Code  string
}

// searchResponse keeps the shape the autocomplete widget already consumes.
type searchResponse struct {
	Success    bool         `json:"success"`
	Data       []rank.Match `json:"data"`
	Message    string       `json:"message"`
	Status     rank.Status  `json:"status"`
	Normalized string       `json:"normalized"`
}

type categoriesResponse struct {
	Catalog    rank.Info        `json:"catalog"`
	Categories []catalog.Record `json:"categories"`
}

// searchEndpoint returns the raw *rank.Result; transports shape it.
func searchEndpoint(reg *rank.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*searchReq)
		return reg.Search(req.Query, req.Limit), nil
	}
}

func explainEndpoint(reg *rank.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*explainReq)
		if req.Code == "" {
			return nil, errMissingCode
		}
		e := reg.Engine()
		if e == nil {
			return nil, errNotLoaded
		}
		ex, ok := e.Explain(req.Query, req.Code)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errUnknownCode, req.Code)
		}
		return ex, nil
	}
}

func listCategoriesEndpoint(reg *rank.Registry) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		e := reg.Engine()
		if e == nil {
			return nil, errNotLoaded
		}
		return categoriesResponse{
			Catalog:    reg.Info(),
			Categories: e.Catalog().Records(),
		}, nil
	}
}

func toSearchResponse(res *rank.Result) searchResponse {
	return searchResponse{
		Success:    true,
		Data:       res.Matches,
		Message:    res.Message(),
		Status:     res.Status,
		Normalized: res.Normalized,
	}
}
