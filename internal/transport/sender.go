// Package transport executes encoded gateway requests over HTTP. The
// canonical engine treats it as an opaque collaborator: payload in, decoded
// body and elapsed wall-clock time out.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every gateway call unless configured otherwise.
const DefaultTimeout = 20 * time.Second

// Response is the raw gateway reply plus how long the round trip took.
type Response struct {
	Body    []byte
	Elapsed time.Duration
}

// Sender is the port adapters dispatch through.
type Sender interface {
	Get(ctx context.Context, rawURL string, query url.Values) (*Response, error)
	PostForm(ctx context.Context, rawURL string, form url.Values) (*Response, error)
	PostXML(ctx context.Context, rawURL string, body []byte) (*Response, error)
}

// Config carries the transport knobs a gateway can require.
type Config struct {
	Timeout time.Duration

	// ClientCert enables mutual TLS for gateways that demand it.
	ClientCert *tls.Certificate
}

type HTTPSender struct {
	httpClient *http.Client
}

func NewHTTPSender(cfg Config) *HTTPSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := &http.Client{Timeout: timeout}
	if cfg.ClientCert != nil {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				Certificates: []tls.Certificate{*cfg.ClientCert},
			},
		}
	}

	return &HTTPSender{httpClient: client}
}

func (s *HTTPSender) Get(ctx context.Context, rawURL string, query url.Values) (*Response, error) {
	target := rawURL
	if len(query) > 0 {
		target = rawURL + "?" + query.Encode()
	}
	return s.send(ctx, http.MethodGet, target, "", nil)
}

func (s *HTTPSender) PostForm(ctx context.Context, rawURL string, form url.Values) (*Response, error) {
	body := strings.NewReader(form.Encode())
	return s.send(ctx, http.MethodPost, rawURL, "application/x-www-form-urlencoded", body)
}

func (s *HTTPSender) PostXML(ctx context.Context, rawURL string, body []byte) (*Response, error) {
	return s.send(ctx, http.MethodPost, rawURL, `text/xml; charset="utf-8"`, strings.NewReader(string(body)))
}

func (s *HTTPSender) send(ctx context.Context, method, rawURL, contentType string, body io.Reader) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, &Error{Err: err}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		return nil, &Error{Err: err, Timeout: isTimeoutErr(err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Status: resp.StatusCode}
	}

	return &Response{Body: respBody, Elapsed: elapsed}, nil
}

func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
