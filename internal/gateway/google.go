package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/cltpj/cltpj/internal/common"
)

// GoogleConfig holds the third-party sign-in configuration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	ListenAddr   string // loopback address for the redirect, default 127.0.0.1:53682
}

// Validate ensures all required fields are present.
func (c *GoogleConfig) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: google client ID is required", common.ErrMissingConfig)
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("%w: google client secret is required", common.ErrMissingConfig)
	}
	return nil
}

// SignInWithGoogle runs the interactive OAuth flow: it starts a loopback
// redirect listener, prints the consent URL, exchanges the returned code
// and resolves the account email. The caller feeds the result into the
// session store's callback transition.
func SignInWithGoogle(ctx context.Context, cfg GoogleConfig) (token, email string, err error) {
	if err := cfg.Validate(); err != nil {
		return "", "", err
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:53682"
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://" + cfg.ListenAddr + "/callback",
		Scopes:       []string{oauth2api.UserinfoEmailScope},
	}

	state := uuid.NewString()
	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	router := chi.NewRouter()
	router.Get("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			errorChan <- fmt.Errorf("state mismatch in callback")
			_, _ = fmt.Fprint(w, callbackPage("Falha na autenticação", "Resposta inesperada. Tente novamente."))
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			errorChan <- fmt.Errorf("no authorization code received")
			_, _ = fmt.Fprint(w, callbackPage("Falha na autenticação", "Nenhum código recebido. Tente novamente."))
			return
		}

		codeChan <- code
		_, _ = fmt.Fprint(w, callbackPage("Autenticação concluída!", "Você pode fechar esta janela e voltar ao terminal."))
	})

	server := &http.Server{Addr: cfg.ListenAddr, Handler: router}
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != http.ErrServerClosed {
			errorChan <- fmt.Errorf("failed to start callback server: %w", serveErr)
		}
	}()
	defer func() { _ = server.Shutdown(ctx) }()

	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	slog.Info("Autenticação Google necessária")
	slog.Info("Abra esta URL no navegador para entrar", "url", authURL)
	slog.Info("Aguardando autenticação...")

	var authCode string
	select {
	case authCode = <-codeChan:
	case callbackErr := <-errorChan:
		return "", "", callbackErr
	case <-ctx.Done():
		return "", "", ctx.Err()
	case <-time.After(5 * time.Minute):
		return "", "", fmt.Errorf("authentication timeout - no response received within 5 minutes")
	}

	oauthToken, err := oauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return "", "", fmt.Errorf("%w: code exchange failed: %v", common.ErrAuthRejected, err)
	}

	email, err = resolveEmail(ctx, oauthConfig, oauthToken)
	if err != nil {
		return "", "", err
	}

	return oauthToken.AccessToken, email, nil
}

// resolveEmail fetches the account email tied to the token, which becomes
// the local identity label.
func resolveEmail(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (string, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, token)))
	if err != nil {
		return "", fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return "", fmt.Errorf("%w: userinfo lookup failed: %v", common.ErrInvalidResponse, err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("%w: userinfo carried no email", common.ErrInvalidResponse)
	}

	return info.Email, nil
}

func callbackPage(title, body string) string {
	return fmt.Sprintf(`<html><body>
		<h1>%s</h1>
		<p>%s</p>
		<script>window.setTimeout(function(){window.close();}, 3000);</script>
	</body></html>`, title, body)
}
