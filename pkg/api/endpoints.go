package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/hazyhaar/artikel/pkg/artikel"
	"github.com/hazyhaar/artikel/pkg/kit"
	"github.com/hazyhaar/artikel/pkg/lexicon"
)

// MaxBatch is the largest number of words accepted in one batch.
const MaxBatch = 100

var (
	ErrEmptyBatch    = errors.New("words array is empty")
	ErrBatchTooLarge = errors.New("too many words")
)

// Shared request/response types used by both HTTP and MCP transports.

type determineReq struct {
	Word string
	Opts Options
}

type determineBatchReq struct {
	Words []string
	Opts  Options
}

type batchResponse struct {
	Results []*Resolution `json:"results"`
}

type lexiconsResponse struct {
	Lexicons []lexicon.LexiconInfo `json:"lexicons"`
}

type rulesResponse struct {
	Rules      []artikel.Rule `json:"rules"`
	Exceptions int            `json:"exceptions"`
}

func determineEndpoint(res *Resolver) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*determineReq)
		return res.Resolve(ctx, req.Word, req.Opts), nil
	}
}

func determineBatchEndpoint(res *Resolver) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*determineBatchReq)
		if len(req.Words) == 0 {
			return nil, ErrEmptyBatch
		}
		if len(req.Words) > MaxBatch {
			return nil, fmt.Errorf("%w (max %d, got %d)", ErrBatchTooLarge, MaxBatch, len(req.Words))
		}
		return batchResponse{Results: res.ResolveBatch(ctx, req.Words, req.Opts)}, nil
	}
}

func listLexiconsEndpoint(reg *lexicon.Registry) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return lexiconsResponse{Lexicons: reg.ListLexicons()}, nil
	}
}

func listRulesEndpoint() kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return rulesResponse{Rules: artikel.Rules(), Exceptions: artikel.ExceptionCount()}, nil
	}
}
