package contact

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const ovhEndpoint = "https://eu.api.ovh.com/1.0"

// SMSChannel dispatches text messages through the OVH SMS REST API.
// Requests are authenticated with the OVH signature scheme: a SHA-1 over
// the application secret, consumer key, method, URL, body and timestamp.
type SMSChannel struct {
	appKey      string
	appSecret   string
	consumerKey string
	serviceName string
	sender      string
	endpoint    string
	client      *http.Client
}

// SMSConfig holds the OVH account coordinates.
type SMSConfig struct {
	AppKey      string
	AppSecret   string
	ConsumerKey string
	ServiceName string
	Sender      string
}

func NewSMSChannel(cfg SMSConfig) (*SMSChannel, error) {
	if cfg.AppKey == "" || cfg.AppSecret == "" || cfg.ConsumerKey == "" {
		return nil, fmt.Errorf("contact: OVH credentials (app key, app secret, consumer key) must all be set")
	}

	return &SMSChannel{
		appKey:      cfg.AppKey,
		appSecret:   cfg.AppSecret,
		consumerKey: cfg.ConsumerKey,
		serviceName: cfg.ServiceName,
		sender:      cfg.Sender,
		endpoint:    ovhEndpoint,
		client:      &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type smsJob struct {
	Message           string   `json:"message"`
	Receivers         []string `json:"receivers"`
	Sender            string   `json:"sender,omitempty"`
	SenderForResponse bool     `json:"senderForResponse"`
	NoStopClause      bool     `json:"noStopClause"`
}

// SendMessage submits one SMS job covering all destinations. Subject is
// ignored; SMS has no subject line.
func (c *SMSChannel) SendMessage(ctx context.Context, destinations []string, text, _ string) error {
	if len(destinations) == 0 {
		return fmt.Errorf("%w: no destination phone numbers", ErrDispatchFailed)
	}
	if text == "" {
		return fmt.Errorf("%w: empty message body", ErrDispatchFailed)
	}

	job := smsJob{
		Message:           text,
		Receivers:         destinations,
		Sender:            c.sender,
		SenderForResponse: c.sender == "",
		NoStopClause:      true,
	}
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("%w: encode job: %v", ErrDispatchFailed, err)
	}

	path := fmt.Sprintf("/sms/%s/jobs", c.serviceName)
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: OVH returned %d: %s", ErrDispatchFailed, resp.StatusCode, detail)
	}

	return nil
}

func (c *SMSChannel) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	url := c.endpoint + path
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrDispatchFailed, err)
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Ovh-Application", c.appKey)
	req.Header.Set("X-Ovh-Consumer", c.consumerKey)
	req.Header.Set("X-Ovh-Timestamp", timestamp)
	req.Header.Set("X-Ovh-Signature", c.sign(method, url, string(body), timestamp))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	return resp, nil
}

// sign computes the OVH request signature:
// "$1$" + SHA1(secret+consumerKey+method+url+body+timestamp, "+"-joined).
func (c *SMSChannel) sign(method, url, body, timestamp string) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s+%s+%s+%s+%s+%s", c.appSecret, c.consumerKey, method, url, body, timestamp)
	return fmt.Sprintf("$1$%x", h.Sum(nil))
}
