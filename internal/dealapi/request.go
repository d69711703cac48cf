package dealapi

import (
	"bytes"
	"context"
	"dealdesk/internal/reqcache"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type cacheOptions struct {
	Method string `json:"method"`
	Auth   bool   `json:"auth"`
}

type freshKey struct{}

// Fresh marks ctx so GET requests skip the render cache in both directions.
// Reads that must observe a mutation go through it.
func Fresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshKey{}, true)
}

func isFresh(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshKey{}).(bool)
	return fresh
}

func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &APIError{Method: method, Path: path, Message: fmt.Sprintf("Не удалось подготовить тело запроса: %v", err), Err: ErrValidation}
		}
		bodyReader = bytes.NewReader(payload)
	}

	urlStr := c.baseURL + joinPath(c.basePath, path)
	if len(params) > 0 {
		urlStr += "?" + params.Encode()
	}

	cacheKey := ""
	if c.cache != nil && method == http.MethodGet && !isFresh(ctx) {
		cacheKey = reqcache.Key(urlStr, cacheOptions{Method: method, Auth: c.token != ""})
		if data, ok, err := c.cache.Get(ctx, cacheKey); err != nil {
			c.logEntry().WithError(err).Warn("Не удалось прочитать кэш запросов.")
		} else if ok {
			apiCacheHits.Inc()
			return decode(method, path, data, out)
		}
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, method, urlStr, bodyReader)
	if err != nil {
		return &APIError{Method: method, Path: path, RequestID: requestID, Message: fmt.Sprintf("Не удалось создать запрос: %v", err), Err: ErrTransport}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	route := routeLabel(path)
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	apiLatency.WithLabelValues(method, route).Observe(time.Since(started).Seconds())
	if err != nil {
		apiReqTotal.WithLabelValues(method, route, "error").Inc()
		c.requestEntry(requestID, method, path).WithError(err).Warn("Ошибка запроса к API сделок.")
		return &APIError{Method: method, Path: path, RequestID: requestID, Message: fmt.Sprintf("Ошибка запроса: %v", err), Err: ErrTransport}
	}
	defer resp.Body.Close()
	apiReqTotal.WithLabelValues(method, route, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, RequestID: requestID, Message: fmt.Sprintf("Не удалось прочитать ответ: %v", err), Err: ErrTransport}
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			Method:    method,
			Path:      path,
			Status:    resp.StatusCode,
			RequestID: requestID,
			Err:       sentinelForStatus(resp.StatusCode),
		}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			apiErr.Message = eb.Error
			apiErr.Code = eb.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("Неуспешный статус: %s", resp.Status)
		}
		c.requestEntry(requestID, method, path).WithField("status", resp.StatusCode).Debug(apiErr.Message)
		return apiErr
	}

	c.requestEntry(requestID, method, path).WithField("status", resp.StatusCode).Debug("Запрос выполнен.")

	if err := decode(method, path, data, out); err != nil {
		return err
	}

	if cacheKey != "" {
		if err := c.cache.Set(ctx, cacheKey, data); err != nil {
			c.logEntry().WithError(err).Warn("Не удалось записать кэш запросов.")
		}
	}

	return nil
}

func decode(method, path string, data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Method: method, Path: path, Message: fmt.Sprintf("Не удалось разобрать ответ: %v", err), Err: ErrMalformedResponse}
	}
	return nil
}

// ClearCache drops every memoized response, e.g. on logout.
func (c *Client) ClearCache(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Clear(ctx)
}

// joinPath prefixes path with basePath unless it already carries it.
func joinPath(basePath, path string) string {
	base := "/" + strings.Trim(basePath, "/")
	if base == "/" {
		base = ""
	}

	p := "/" + strings.TrimLeft(path, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}

	if base != "" && (p == base || strings.HasPrefix(p, base+"/")) {
		return p
	}
	return base + p
}

func (c *Client) logEntry() *logrus.Entry {
	return c.log.WithComponent("dealapi")
}

func (c *Client) requestEntry(requestID, method, path string) *logrus.Entry {
	return c.log.WithRequestID(requestID).WithFields(logrus.Fields{
		"component": "dealapi",
		"method":    method,
		"path":      path,
	})
}
