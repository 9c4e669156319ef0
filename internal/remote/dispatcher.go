package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edubase/remote-console/internal/environ"
	"github.com/edubase/remote-console/internal/metrics"
)

// requestTimeout — короткий фиксированный таймаут: админский запрос должен
// падать быстро, а не висеть.
const requestTimeout = 5 * time.Second

const userAgent = "Remote-Admin/1.0"

// Response is what every dispatch produces, including synthetic ones for
// configuration and transport failures. StatusCode is never absent, so
// callers branch on it without error handling.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the response body into v.
func (r Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Dispatcher issues HTTP calls to remote environment management APIs.
// Dispatch never returns an error: misconfiguration and network failures are
// normalized into synthetic 503/502 responses.
type Dispatcher struct {
	reg    *environ.Registry
	client *http.Client
	log    *logrus.Entry
}

func NewDispatcher(reg *environ.Registry, log *logrus.Entry) *Dispatcher {
	return &Dispatcher{
		reg:    reg,
		client: &http.Client{Timeout: requestTimeout},
		log:    log,
	}
}

// Dispatch performs method against path on the environment env. The caller
// resolves env explicitly (usually from the session selector). payload is
// sent as JSON for POST/PUT; GET/DELETE ignore it. Unsupported methods are a
// caller programming error and panic.
func (d *Dispatcher) Dispatch(ctx context.Context, method, path string, payload any, env string) Response {
	cfg, ok := d.reg.Get(env)
	if !ok || !cfg.Configured() {
		metrics.DispatchTotal.WithLabelValues(env, metrics.OutcomeNotConfigured).Inc()
		return syntheticResponse(http.StatusServiceUnavailable,
			fmt.Sprintf("Environment %s is not configured", env))
	}

	var body io.Reader
	switch method {
	case http.MethodGet, http.MethodDelete:
	case http.MethodPost, http.MethodPut:
		if payload == nil {
			payload = map[string]any{}
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return syntheticResponse(http.StatusBadGateway, "Connection failed: "+err.Error())
		}
		body = bytes.NewReader(b)
	default:
		panic(fmt.Sprintf("remote: unsupported HTTP method %q", method))
	}

	url := strings.TrimRight(cfg.URL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		metrics.DispatchTotal.WithLabelValues(env, metrics.OutcomeTransport).Inc()
		return syntheticResponse(http.StatusBadGateway, "Connection failed: "+err.Error())
	}

	req.Header.Set("X-Admin-Token", cfg.Token)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		d.log.WithFields(logrus.Fields{"env": env, "method": method, "path": path}).
			Warnf("dispatch failed: %v", err)
		metrics.DispatchTotal.WithLabelValues(env, metrics.OutcomeTransport).Inc()
		return syntheticResponse(http.StatusBadGateway, "Connection failed: "+err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.DispatchTotal.WithLabelValues(env, metrics.OutcomeTransport).Inc()
		return syntheticResponse(http.StatusBadGateway, "Connection failed: "+err.Error())
	}

	outcome := metrics.OutcomeOK
	if resp.StatusCode >= 300 {
		outcome = metrics.OutcomeUpstreamError
	}
	metrics.DispatchTotal.WithLabelValues(env, outcome).Inc()

	return Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}
}

// syntheticResponse — локально собранный ответ вместо реального сетевого.
func syntheticResponse(status int, message string) Response {
	body, _ := json.Marshal(map[string]string{"error": message})
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	return Response{
		StatusCode: status,
		Header:     header,
		Body:       body,
	}
}
