package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"verva-api/domain"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Session is the credential bundle issued by the provider on successful
// sign-in or sign-up.
type Session struct {
	User         domain.User `json:"user"`
	IDToken      string      `json:"idToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Provider wraps the hosted identity service's REST API. All operations are
// synchronous HTTP calls returning a normalized user record or one of the
// taxonomy errors.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	google  *GoogleOAuth
	logger  *log.Logger
}

// NewProvider creates a Provider for the given API key. The google argument
// may be nil when OAuth sign-in is not configured.
func NewProvider(apiKey string, google *GoogleOAuth, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Provider{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		google:  google,
		logger:  logger,
	}
}

type accountResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type providerError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignUp registers a new email/password identity, then sets the display name
// and a generated avatar on it before returning the session.
func (p *Provider) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	var resp accountResponse
	err := p.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	avatar := AvatarURL(name)
	var updated accountResponse
	err = p.post(ctx, "accounts:update", map[string]any{
		"idToken":           resp.IDToken,
		"displayName":       name,
		"photoUrl":          avatar,
		"returnSecureToken": false,
	}, &updated)
	if err != nil {
		// The account exists; failing the whole sign-up over a profile write
		// would strand it. Return the session with the intended profile.
		p.logger.Warnf("profile update after sign-up failed: %v", err)
	}

	return p.session(resp, name, avatar), nil
}

// SignIn authenticates an existing email/password identity.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp accountResponse
	err := p.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return p.session(resp, resp.DisplayName, resp.PhotoURL), nil
}

// SignInWithGoogle exchanges an OAuth authorization code for a Google ID
// token and signs the user in through the provider's federated endpoint.
func (p *Provider) SignInWithGoogle(ctx context.Context, code string) (*Session, error) {
	if p.google == nil {
		return nil, fmt.Errorf("%w: oauth not configured", ErrAuthFailed)
	}
	idToken, err := p.google.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	var resp accountResponse
	err = p.post(ctx, "accounts:signInWithIdp", map[string]any{
		"postBody":            "id_token=" + idToken + "&providerId=google.com",
		"requestUri":          p.google.RedirectURL(),
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return p.session(resp, resp.DisplayName, resp.PhotoURL), nil
}

func (p *Provider) session(resp accountResponse, name, avatar string) *Session {
	if name == "" {
		name = fallbackName
	}
	if avatar == "" {
		avatar = AvatarURL(name)
	}
	return &Session{
		User: domain.User{
			ID:        resp.LocalID,
			Name:      name,
			Email:     resp.Email,
			AvatarURL: avatar,
		},
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
	}
}

func (p *Provider) post(ctx context.Context, endpoint string, payload map[string]any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", p.baseURL, endpoint, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrAuthFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var perr providerError
		if json.Unmarshal(respBody, &perr) == nil && perr.Error.Message != "" {
			p.logger.WithFields(log.Fields{
				"endpoint": endpoint,
				"status":   resp.StatusCode,
				"code":     perr.Error.Message,
			}).Debug("identity provider rejected request")
			return mapProviderError(perr.Error.Message)
		}
		return fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrAuthFailed, err)
	}
	return nil
}
