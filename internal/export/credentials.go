package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrNoCredentials means neither GOOGLE_TOKEN_JSON nor the token file
// provided usable Google credentials.
var ErrNoCredentials = errors.New("no valid Google credentials: set GOOGLE_TOKEN_JSON or run the local authorization first")

// OptionsFunc yields the client options used to build the Sheets service.
type OptionsFunc func(ctx context.Context) ([]option.ClientOption, error)

// authorizedUserToken is the token file written by the Python
// google-auth tooling (no "type" field) or by gcloud (type set).
type authorizedUserToken struct {
	Type         string `json:"type"`
	RefreshToken string `json:"refresh_token"`
	TokenURI     string `json:"token_uri"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// GoogleCredentials loads credentials from tokenJSON or, when empty, from
// tokenFile. Both are read lazily so a server can start without them.
func GoogleCredentials(tokenJSON, tokenFile string) OptionsFunc {
	return func(ctx context.Context) ([]option.ClientOption, error) {
		data := []byte(tokenJSON)
		if len(data) == 0 {
			if tokenFile == "" {
				return nil, ErrNoCredentials
			}
			raw, err := os.ReadFile(tokenFile)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return nil, ErrNoCredentials
				}
				return nil, fmt.Errorf("read token file %s: %w", tokenFile, err)
			}
			data = raw
		}

		opt, err := credentialsOption(ctx, data)
		if err != nil {
			return nil, err
		}
		return []option.ClientOption{opt}, nil
	}
}

func credentialsOption(ctx context.Context, data []byte) (option.ClientOption, error) {
	var tok authorizedUserToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse google token: %w", err)
	}

	if tok.Type != "" {
		creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("load google credentials: %w", err)
		}
		return option.WithCredentials(creds), nil
	}

	if tok.RefreshToken == "" || tok.ClientID == "" {
		return nil, ErrNoCredentials
	}

	conf := &oauth2.Config{
		ClientID:     tok.ClientID,
		ClientSecret: tok.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
	if tok.TokenURI != "" {
		conf.Endpoint.TokenURL = tok.TokenURI
	}

	// Only the refresh token is trusted; the access token is re-minted.
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: tok.RefreshToken})
	return option.WithTokenSource(ts), nil
}
