package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/server"
	"github.com/desertthunder/muse/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin authorizes with Spotify and registers the local user record.
//
// With --token the flow is skipped and the token is used directly. Otherwise
// a local HTTP server handles the OAuth2 callback while the user authorizes
// in a browser.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify credentials must be set in config.toml", shared.ErrServiceUnavailable)
	}

	accessToken := cmd.String("token")
	if accessToken == "" {
		token, err := r.doOAuth(ctx)
		if err != nil {
			return err
		}
		accessToken = token.AccessToken
	}

	if err := r.spotify.Authenticate(ctx, accessToken, ""); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	profile, err := r.spotify.UserProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch user profile: %w", err)
	}

	if err := r.connect(); err != nil {
		return err
	}

	userID, err := r.users.Upsert(&models.User{
		SpotifyID:   profile.ID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
	})
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	r.writePlain("✓ Authorized as %s\n", profile.DisplayName)
	r.writePlain("✓ Local user ID: %s\n\n", userID)
	r.writePlain("Pass --user %s to sync and enhance commands.\n", userID)
	if cmd.String("token") == "" {
		r.writePlain("Access token (pass via --token): %s\n", accessToken)
	}

	return nil
}

// doOAuth runs the authorization code flow against a temporary local
// callback server. The server listens on the host named by the configured
// redirect URI.
func (r *Runner) doOAuth(ctx context.Context) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, err
	}

	oauthHandler := server.NewOAuthHandler(r.spotify.OAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	redirect, err := url.Parse(r.spotify.OAuthConfig().RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad redirect URI: %v", shared.ErrInvalidConfig, err)
	}

	httpServer := &http.Server{
		Addr:    redirect.Host,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", redirect.Host)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	authURL := r.spotify.GetAuthURL(state)
	r.writePlain("→ Open this URL in your browser to authorize:\n%s\n\n", authURL)
	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}

// authenticateSpotify applies the --token flag to the Spotify client for
// commands that call the API directly.
func (r *Runner) authenticateSpotify(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify credentials must be set in config.toml", shared.ErrServiceUnavailable)
	}
	token := cmd.String("token")
	if token == "" {
		return fmt.Errorf("%w: pass --token (see 'muse auth login')", shared.ErrNotAuthenticated)
	}
	return r.spotify.Authenticate(ctx, token, "")
}
