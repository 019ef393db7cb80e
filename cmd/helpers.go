// File: cmd/helpers.go
package cmd

import (
	"context"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/apiclient"
	"github.com/autoapply/autoapply-cli/internal/observability"
	"github.com/autoapply/autoapply-cli/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// pageFlags are shared by every action command.
type pageFlags struct {
	url      string
	htmlFile string
	token    string
	userID   string
	email    string
	mockFile string
	apiURL   string
	asJSON   bool
}

// buildRequest assembles the action request from flags, positional args and
// the credential store. A token flag wins over the stored session.
func (f *pageFlags) buildRequest(ctx context.Context, action schemas.Action, args []string) (schemas.ActionRequest, error) {
	req := schemas.ActionRequest{
		Action:    action,
		HTMLFile:  f.htmlFile,
		Token:     f.token,
		UserID:    f.userID,
		UserEmail: f.email,
		APIURL:    f.apiURL,
	}
	if len(args) > 0 {
		req.PageURL = args[0]
	}
	if req.PageURL == "" && req.HTMLFile == "" {
		return req, fmt.Errorf("pass a page URL or --html-file")
	}

	if f.mockFile != "" {
		profile, err := loadMockProfile(f.mockFile)
		if err != nil {
			return req, err
		}
		req.MockProfile = profile
	}

	if req.Token == "" && req.MockProfile == nil {
		token, userID, email := storedSession(ctx)
		req.Token = token
		if req.UserID == "" {
			req.UserID = userID
		}
		if req.UserEmail == "" {
			req.UserEmail = email
		}
	} else if req.Token != "" && req.UserID == "" {
		if id, err := apiclient.DecodeIdentity(req.Token); err == nil {
			req.UserID = id.UserID
		}
	}
	return req, nil
}

// storedSession reads the saved login, tolerating a missing or unreadable
// store: commands surface the auth error later with better context.
func storedSession(ctx context.Context) (token, userID, email string) {
	path, err := cfg.StorePath()
	if err != nil {
		return "", "", ""
	}
	s, err := store.Open(path)
	if err != nil {
		observability.GetLogger().Debug("Credential store unavailable", zap.Error(err))
		return "", "", ""
	}
	defer s.Close()

	token, _ = s.Token(ctx)
	userID, email, _ = s.Identity(ctx)
	return token, userID, email
}

func loadMockProfile(path string) (*schemas.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock profile: %w", err)
	}
	var p schemas.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse mock profile: %w", err)
	}
	return &p, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// printFillSummary renders the fill outcome for humans.
func printFillSummary(resp schemas.ActionResponse) {
	r := resp.Fill
	if r == nil {
		return
	}
	fmt.Printf("Filled %d field(s):\n", len(r.Filled))
	for _, f := range r.Filled {
		fmt.Printf("  + %s = %q\n", f.Label, f.Value)
	}
	if len(r.Skipped) > 0 {
		fmt.Printf("Skipped %d field(s):\n", len(r.Skipped))
		for _, s := range r.Skipped {
			fmt.Printf("  - %s (%s)\n", s.Label, s.Reason)
		}
	}
	if len(r.RequiredUnfilled) > 0 {
		fmt.Printf("Required and still empty (%d):\n", len(r.RequiredUnfilled))
		for _, rf := range r.RequiredUnfilled {
			fmt.Printf("  ! %s (%s)\n", rf.Label, rf.Reason)
		}
	}
	if len(resp.Candidates) > 0 {
		fmt.Println("Action buttons (best first):")
		for i, c := range resp.Candidates {
			fmt.Printf("  %d. %q (score %d)\n", i+1, c.Text, c.Score)
		}
	}
}
