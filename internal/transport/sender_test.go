package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/paybridge/gateway/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSender_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "10.00", r.URL.Query().Get("x_amount"))
		w.Write([]byte("1;000;Approved"))
	}))
	defer server.Close()

	sender := transport.NewHTTPSender(transport.Config{})
	resp, err := sender.Get(context.Background(), server.URL, url.Values{"x_amount": {"10.00"}})

	require.NoError(t, err)
	assert.Equal(t, "1;000;Approved", string(resp.Body))
	assert.Greater(t, resp.Elapsed, time.Duration(0))
}

func TestHTTPSender_PostForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "sale", r.PostForm.Get("trantype"))
		w.Write([]byte("approval=yes"))
	}))
	defer server.Close()

	sender := transport.NewHTTPSender(transport.Config{})
	resp, err := sender.PostForm(context.Background(), server.URL, url.Values{"trantype": {"sale"}})

	require.NoError(t, err)
	assert.Equal(t, "approval=yes", string(resp.Body))
}

func TestHTTPSender_PostXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Content-Type"), "text/xml")
		w.Write([]byte("<response>ok</response>"))
	}))
	defer server.Close()

	sender := transport.NewHTTPSender(transport.Config{})
	resp, err := sender.PostXML(context.Background(), server.URL, []byte("<request/>"))

	require.NoError(t, err)
	assert.Equal(t, "<response>ok</response>", string(resp.Body))
}

func TestHTTPSender_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := transport.NewHTTPSender(transport.Config{})
	_, err := sender.Get(context.Background(), server.URL, nil)

	require.Error(t, err)
	tErr, ok := transport.IsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, tErr.Status)
	assert.True(t, tErr.IsRetryable())
}

func TestHTTPSender_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	sender := transport.NewHTTPSender(transport.Config{Timeout: 20 * time.Millisecond})
	_, err := sender.Get(context.Background(), server.URL, nil)

	require.Error(t, err)
	assert.True(t, transport.IsTimeout(err))

	tErr, ok := transport.IsTransportError(err)
	require.True(t, ok)
	assert.False(t, tErr.IsRetryable())
}
