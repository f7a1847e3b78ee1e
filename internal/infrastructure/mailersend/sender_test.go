package mailersend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirect sends every request to the test server regardless of host.
type redirect struct{ target *url.URL }

func (rt redirect) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

func newTestSender(t *testing.T, h http.HandlerFunc) *Sender {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	s, err := NewSender("test-key", "Buh", "noreply@example.com")
	require.NoError(t, err)
	s.client.SetClient(&http.Client{Transport: redirect{target: u}})
	return s
}

func TestNewSender_RequiresKeyAndFrom(t *testing.T) {
	_, err := NewSender("", "Buh", "noreply@example.com")
	assert.Error(t, err)
	_, err = NewSender("key", "Buh", "")
	assert.Error(t, err)
}

func TestSend_PostsMessage(t *testing.T) {
	var got map[string]interface{}
	var auth string
	s := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	})

	err := s.Send(context.Background(), mail.Message{To: "a@x.com", Subject: "Код", Text: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "Код", got["subject"])
	assert.Equal(t, "123456", got["text"])
	to, _ := got["to"].([]interface{})
	require.Len(t, to, 1)
	assert.Equal(t, "a@x.com", to[0].(map[string]interface{})["email"])
}

func TestSend_ProviderError(t *testing.T) {
	s := newTestSender(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from"}`))
	})
	err := s.Send(context.Background(), mail.Message{To: "a@x.com", Subject: "s", Text: "t"})
	assert.Error(t, err)
}
