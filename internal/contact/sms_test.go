package contact

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestChannel(t *testing.T, handler http.HandlerFunc) *SMSChannel {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ch, err := NewSMSChannel(SMSConfig{
		AppKey:      "app-key",
		AppSecret:   "app-secret",
		ConsumerKey: "consumer-key",
		ServiceName: "sms-svc1",
	})
	require.NoError(t, err)
	ch.endpoint = srv.URL
	return ch
}

func TestSMSChannelSendMessage(t *testing.T) {
	t.Run("posts a signed job", func(t *testing.T) {
		var captured *http.Request
		var capturedBody []byte

		ch := newTestChannel(t, func(w http.ResponseWriter, r *http.Request) {
			captured = r.Clone(context.Background())
			capturedBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("{}"))
		})

		err := ch.SendMessage(context.Background(), []string{"+33612345678"}, "your code is 123456", "")
		require.NoError(t, err)

		require.Equal(t, "/sms/sms-svc1/jobs", captured.URL.Path)
		require.Equal(t, "app-key", captured.Header.Get("X-Ovh-Application"))
		require.Equal(t, "consumer-key", captured.Header.Get("X-Ovh-Consumer"))

		var job smsJob
		require.NoError(t, json.Unmarshal(capturedBody, &job))
		require.Equal(t, []string{"+33612345678"}, job.Receivers)
		require.Equal(t, "your code is 123456", job.Message)

		// Recompute the signature over the captured request.
		ts := captured.Header.Get("X-Ovh-Timestamp")
		require.NotEmpty(t, ts)
		h := sha1.New()
		fmt.Fprintf(h, "app-secret+consumer-key+POST+%s+%s+%s",
			ch.endpoint+"/sms/sms-svc1/jobs", capturedBody, ts)
		require.Equal(t, fmt.Sprintf("$1$%x", h.Sum(nil)), captured.Header.Get("X-Ovh-Signature"))
	})

	t.Run("provider error surfaces ErrDispatchFailed", func(t *testing.T) {
		ch := newTestChannel(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		err := ch.SendMessage(context.Background(), []string{"+33612345678"}, "hello", "")
		require.ErrorIs(t, err, ErrDispatchFailed)
	})

	t.Run("rejects empty destinations and body", func(t *testing.T) {
		ch := newTestChannel(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})

		require.ErrorIs(t, ch.SendMessage(context.Background(), nil, "hello", ""), ErrDispatchFailed)
		require.ErrorIs(t, ch.SendMessage(context.Background(), []string{"+336"}, "", ""), ErrDispatchFailed)
	})
}

func TestNewSMSChannelRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewSMSChannel(SMSConfig{AppKey: "k"})
	require.Error(t, err)
}

func TestEmailChannelSendMessage(t *testing.T) {
	t.Parallel()

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	ch := NewEmailChannel(EmailConfig{Host: "mail.example.com", Port: 587, From: "noreply@example.com"})
	ch.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := ch.SendMessage(context.Background(), []string{"alice@example.com"}, "hello", "Greetings")
	require.NoError(t, err)
	require.Equal(t, "mail.example.com:587", gotAddr)
	require.Equal(t, "noreply@example.com", gotFrom)
	require.Equal(t, []string{"alice@example.com"}, gotTo)
	require.Contains(t, string(gotMsg), "Subject: Greetings")
	require.Contains(t, string(gotMsg), "hello")
}
