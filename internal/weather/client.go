// Package weather предоставляет клиент для внешнего сервиса погоды.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client инкапсулирует HTTP-взаимодействие с сервисом погоды.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Conditions описывает текущую погоду в городе.
type Conditions struct {
	City         string
	TemperatureC float64
	Humidity     int
	Description  string
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// NewClient создаёт HTTP-клиент для обращения к сервису погоды по указанному адресу.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Configured сообщает, задан ли адрес сервиса.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// Current запрашивает текущую погоду для города в градусах Цельсия.
func (c *Client) Current(ctx context.Context, city string) (*Conditions, int, time.Duration, error) {
	if !c.Configured() {
		return nil, 0, 0, fmt.Errorf("weather client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	if c.apiKey != "" {
		q.Set("appid", c.apiKey)
	}
	endpoint := fmt.Sprintf("%s/data/2.5/weather?%s", base, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := time.Duration(0)
		if v := resp.Header.Get("Retry-After"); v != "" {
			if seconds, parseErr := strconv.Atoi(v); parseErr == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return nil, resp.StatusCode, retryAfter, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, resp.StatusCode, 0, fmt.Errorf("decode response: %w", err)
	}

	res := &Conditions{
		City:         body.Name,
		TemperatureC: body.Main.Temp,
		Humidity:     body.Main.Humidity,
	}
	if len(body.Weather) > 0 {
		res.Description = body.Weather[0].Description
	}
	return res, resp.StatusCode, 0, nil
}
