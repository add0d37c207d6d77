package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client cliente HTTP mínimo de la API Bazar. Sin reintentos; cada petición respeta ctx y el timeout.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient baseURL sin barra final, p. ej. http://localhost:3001/api.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP permite inyectar el *http.Client (tests).
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// BaseURL URL base de la API.
func (c *Client) BaseURL() string { return c.baseURL }

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// do envía la petición. Solo devuelve error de transporte (*ConnectionError); el estado HTTP lo evalúa el llamador.
func (c *Client) do(ctx context.Context, method, path string, headers http.Header, body any) (response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("serializar petición: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return response{}, fmt.Errorf("crear petición: %w", err)
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, &ConnectionError{Err: err}
	}
	return response{status: resp.StatusCode, body: data}, nil
}

// apiError arma el error de una respuesta no exitosa con el message del servidor o fallback.
func apiError(r response, fallback string) *APIError {
	var body struct {
		Message string `json:"message"`
	}
	msg := fallback
	if json.Unmarshal(r.body, &body) == nil && strings.TrimSpace(body.Message) != "" {
		msg = body.Message
	}
	return &APIError{Status: r.status, Message: msg}
}
