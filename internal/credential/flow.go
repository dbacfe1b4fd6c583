package credential

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"
)

const (
	defaultFlowTimeout = 5 * time.Minute
	defaultRedirectURL = "http://localhost:8085/callback"
)

var ErrFlowTimeout = errors.New("authentication timed out")

// LoopbackFlow runs the installed-app consent flow: it serves the redirect URL
// on a local listener, sends the user to the consent page and exchanges the
// returned code.
type LoopbackFlow struct {
	config  *oauth2.Config
	openURL func(string) error
	out     io.Writer
	timeout time.Duration
}

type FlowOption func(*LoopbackFlow)

func WithBrowser(open func(string) error) FlowOption {
	return func(f *LoopbackFlow) {
		f.openURL = open
	}
}

func WithOutput(w io.Writer) FlowOption {
	return func(f *LoopbackFlow) {
		f.out = w
	}
}

func WithTimeout(d time.Duration) FlowOption {
	return func(f *LoopbackFlow) {
		f.timeout = d
	}
}

func NewLoopbackFlow(config *oauth2.Config, opts ...FlowOption) *LoopbackFlow {
	f := &LoopbackFlow{
		config:  config,
		openURL: browser.OpenURL,
		out:     os.Stdout,
		timeout: defaultFlowTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *LoopbackFlow) Authorize(ctx context.Context) (*Credential, error) {
	cfg := *f.config
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = defaultRedirectURL
	}

	redirect, err := url.Parse(cfg.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL: %w", err)
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	// Port 0 asks the kernel for a free port; the redirect must name the real one.
	if redirect.Port() == "0" {
		redirect.Host = listener.Addr().String()
		cfg.RedirectURL = redirect.String()
	}

	callbackPath := redirect.Path
	if callbackPath == "" {
		callbackPath = "/"
	}

	state := uuid.NewString()
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	server := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != callbackPath {
				http.NotFound(w, r)
				return
			}

			query := r.URL.Query()
			switch {
			case query.Get("error") != "":
				sendErr(errChan, fmt.Errorf("authorization denied: %s", query.Get("error")))
				_, _ = fmt.Fprint(w, "<html><body><h1>Error</h1><p>Authorization was denied.</p></body></html>")
			case query.Get("state") != state:
				sendErr(errChan, errors.New("state mismatch in callback"))
				http.Error(w, "state mismatch", http.StatusBadRequest)
			case query.Get("code") == "":
				sendErr(errChan, errors.New("no code in callback"))
				_, _ = fmt.Fprint(w, "<html><body><h1>Error</h1><p>No authorization code received.</p></body></html>")
			default:
				select {
				case codeChan <- query.Get("code"):
				default:
				}
				_, _ = fmt.Fprint(w, "<html><body><h1>Success!</h1><p>You can close this window and return to the terminal.</p></body></html>")
			}
		}),
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errChan, err)
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	_, _ = fmt.Fprintf(f.out, "Opening browser for YouTube authorization...\nIf the browser doesn't open, visit:\n%s\n", authURL)

	if err := f.openURL(authURL); err != nil {
		slog.Debug("Failed to open browser", "error", err)
	}

	timer := time.NewTimer(f.timeout)
	defer timer.Stop()

	select {
	case code := <-codeChan:
		token, err := cfg.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to exchange code: %w", err)
		}
		return FromToken(token), nil
	case err := <-errChan:
		return nil, err
	case <-timer.C:
		return nil, ErrFlowTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}
