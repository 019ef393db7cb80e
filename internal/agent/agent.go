// File: internal/agent/agent.go

// Package agent dispatches action requests to the fill, analyze and
// supervised-apply flows. Both the CLI commands and the HTTP bridge funnel
// through the same Handle entry point.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/apiclient"
	"github.com/autoapply/autoapply-cli/internal/config"
	"github.com/autoapply/autoapply-cli/internal/fill"
	"github.com/autoapply/autoapply-cli/internal/jobdesc"
	"github.com/autoapply/autoapply-cli/internal/page"
	"github.com/autoapply/autoapply-cli/internal/rank"
	"github.com/autoapply/autoapply-cli/internal/review"
)

// ErrAuthRequired means the request carried neither a token with an identity
// nor a mock profile.
var ErrAuthRequired = errors.New("authentication required: log in or pass a token")

// Backend is the slice of the API client the agent needs.
type Backend interface {
	Profile(ctx context.Context, token, userID string) (*schemas.Profile, error)
	ParseJob(ctx context.Context, token, description, jobURL string) ([]byte, error)
}

// Opener resolves a request to an open page. The returned func closes it.
type Opener interface {
	Open(ctx context.Context, req schemas.ActionRequest) (page.Page, func(), error)
}

// Prompter runs the interactive review gate. A nil prompter on the Agent
// means no reviewer is available and supervised requests are staged instead.
type Prompter interface {
	Run(ctx context.Context, m *review.Machine) (bool, error)
}

// Agent wires the flows together. Construct with New and override fields via
// the With* options only in tests.
type Agent struct {
	cfg      *config.Config
	logger   *zap.Logger
	opener   Opener
	backend  func(baseURL string) Backend
	prompter Prompter
}

// Option mutates an Agent under construction.
type Option func(*Agent)

// WithOpener replaces the page opener.
func WithOpener(o Opener) Option { return func(a *Agent) { a.opener = o } }

// WithBackend replaces the backend factory.
func WithBackend(f func(baseURL string) Backend) Option {
	return func(a *Agent) { a.backend = f }
}

// WithPrompter installs an interactive review prompter.
func WithPrompter(p Prompter) Option { return func(a *Agent) { a.prompter = p } }

// New builds an Agent with the default lazy browser opener and API client
// factory.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Agent{
		cfg:    cfg,
		logger: logger.Named("agent"),
	}
	a.opener = NewLazyOpener(cfg, logger)
	a.backend = func(baseURL string) Backend {
		apiCfg := cfg.API
		if baseURL != "" {
			apiCfg.BaseURL = baseURL
		}
		return apiclient.New(apiCfg, logger)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle runs one action synchronously and returns its response. It never
// panics across the boundary; all failures land in the response error.
func (a *Agent) Handle(ctx context.Context, req schemas.ActionRequest) schemas.ActionResponse {
	invocationID := uuid.NewString()
	logger := a.logger.With(
		zap.String("invocation_id", invocationID),
		zap.String("action", string(req.Action)),
	)

	if !req.Action.Valid() {
		return schemas.Fail(invocationID, fmt.Errorf("unknown action %q", req.Action))
	}
	logger.Info("Handling action")

	var (
		resp schemas.ActionResponse
		err  error
	)
	switch req.Action {
	case schemas.ActionFillForm:
		resp, err = a.handleFill(ctx, req)
	case schemas.ActionAnalyzePage:
		resp, err = a.handleAnalyze(ctx, req)
	case schemas.ActionAutoApply, schemas.ActionAutoApplySupervised:
		resp, err = a.handleAutoApply(ctx, req)
	}
	if err != nil {
		logger.Warn("Action failed", zap.Error(err))
		return schemas.Fail(invocationID, err)
	}

	resp.Success = true
	resp.InvocationID = invocationID
	return resp
}

// preparePage opens the page and fetches the profile concurrently; neither
// depends on the other and page loads dominate latency.
func (a *Agent) preparePage(ctx context.Context, req schemas.ActionRequest) (page.Page, func(), fill.Values, error) {
	var (
		pg      page.Page
		cleanup func()
		profile *schemas.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pg, cleanup, err = a.opener.Open(gctx, req)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = a.resolveProfile(gctx, req)
		return err
	})
	if err := g.Wait(); err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, nil, nil, err
	}

	return pg, cleanup, fill.BuildValues(*profile, req.UserEmail), nil
}

// resolveProfile returns the mock profile when provided, otherwise fetches
// from the backend using the request's identity or the token's claims.
func (a *Agent) resolveProfile(ctx context.Context, req schemas.ActionRequest) (*schemas.Profile, error) {
	if req.MockProfile != nil {
		p := *req.MockProfile
		p.Normalize()
		return &p, nil
	}
	if req.Token == "" {
		return nil, ErrAuthRequired
	}

	userID := req.UserID
	if userID == "" {
		id, err := apiclient.DecodeIdentity(req.Token)
		if err != nil {
			return nil, fmt.Errorf("%w: token carries no usable identity", ErrAuthRequired)
		}
		userID = id.UserID
	}
	return a.backend(req.APIURL).Profile(ctx, req.Token, userID)
}

func (a *Agent) handleFill(ctx context.Context, req schemas.ActionRequest) (schemas.ActionResponse, error) {
	pg, cleanup, values, err := a.preparePage(ctx, req)
	if err != nil {
		return schemas.ActionResponse{}, err
	}
	defer cleanup()

	report, err := fill.New(a.logger).Fill(ctx, pg, values)
	if err != nil {
		return schemas.ActionResponse{}, err
	}
	return schemas.ActionResponse{Fill: report}, nil
}

func (a *Agent) handleAnalyze(ctx context.Context, req schemas.ActionRequest) (schemas.ActionResponse, error) {
	pg, cleanup, err := a.opener.Open(ctx, req)
	if err != nil {
		return schemas.ActionResponse{}, err
	}
	defer cleanup()

	content, err := pg.HTML(ctx)
	if err != nil {
		return schemas.ActionResponse{}, err
	}
	description, err := jobdesc.Extract(content)
	if err != nil {
		return schemas.ActionResponse{}, err
	}

	// Without a token the extraction itself is the result.
	if req.Token == "" {
		payload, err := jsonMarshal(map[string]string{"jobDescription": description})
		if err != nil {
			return schemas.ActionResponse{}, err
		}
		return schemas.ActionResponse{Analysis: payload}, nil
	}

	loc, err := pg.Location(ctx)
	if err != nil {
		loc = req.PageURL
	}
	analysis, err := a.backend(req.APIURL).ParseJob(ctx, req.Token, description, loc)
	if err != nil {
		return schemas.ActionResponse{}, err
	}
	return schemas.ActionResponse{Analysis: analysis}, nil
}

// handleAutoApply runs the fill pass, ranks the action candidates and, when
// an interactive reviewer is attached, opens the review gate. Without one
// the response is staged: candidates are returned and nothing is clicked.
func (a *Agent) handleAutoApply(ctx context.Context, req schemas.ActionRequest) (schemas.ActionResponse, error) {
	pg, cleanup, values, err := a.preparePage(ctx, req)
	if err != nil {
		return schemas.ActionResponse{}, err
	}
	defer cleanup()

	report, err := fill.New(a.logger).Fill(ctx, pg, values)
	if err != nil {
		return schemas.ActionResponse{}, err
	}

	buttons, err := pg.Buttons(ctx)
	if err != nil {
		return schemas.ActionResponse{}, err
	}
	candidates := rank.Rank(buttons)

	resp := schemas.ActionResponse{Fill: report, Candidates: candidates}
	if a.prompter == nil || len(candidates) == 0 {
		return resp, nil
	}

	machine := review.NewMachine(pg, report, candidates, a.cfg.Filler.ClickDelay)
	proceeded, err := a.prompter.Run(ctx, machine)
	if err != nil {
		return schemas.ActionResponse{}, err
	}
	resp.Clicked = proceeded
	if proceeded {
		if cand, ok := machine.Selected(); ok {
			resp.ClickedSelector = cand.Selector
		}
	}
	return resp, nil
}
