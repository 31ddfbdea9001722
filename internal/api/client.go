// Package api 封装对平台 REST 接口的访问
// 薄客户端：JSON over HTTP，Bearer 鉴权，错误统一映射到 errorx 错误码
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tutor_chat_client/internal/config"
	"tutor_chat_client/pkg/constants"
	"tutor_chat_client/pkg/errorx"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// RestClient 平台 REST 客户端
type RestClient struct {
	base  string
	token string
	http  *http.Client
}

// NewRestClient 创建 REST 客户端，请求超时取自配置
func NewRestClient(cfg *config.Config, token string) *RestClient {
	timeout := cfg.ReconnectConfig.RequestTimeout
	if timeout <= 0 {
		timeout = constants.REQUEST_TIMEOUT_SEC
	}
	return &RestClient{
		base:  cfg.ServerConfig.BaseURL,
		token: token,
		http: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// envelope 平台统一响应结构 {code, msg, data}
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// do 执行一次请求并解析响应信封
// 错误映射：403/401 → 未授权（不可重试），404 → 不存在，其余 → 通用请求失败
func (c *RestClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errorx.Wrap(err, errorx.CodeInvalidParam, "请求序列化失败")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeInvalidParam, "请求构造失败")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeRequestFailed, errorx.ErrRequestFailed.Msg)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return errorx.Wrap(fmt.Errorf("http %d", resp.StatusCode), errorx.CodeUnauthorized, errorx.ErrNotAuthorized.Msg)
	case resp.StatusCode == http.StatusNotFound:
		return errorx.Wrap(fmt.Errorf("http %d", resp.StatusCode), errorx.CodeNotFound, errorx.ErrNotFound.Msg)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errorx.Newf(errorx.CodeRequestFailed, "%s (http %d)", errorx.ErrRequestFailed.Msg, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errorx.Wrap(err, errorx.CodeRequestFailed, "响应解析失败")
	}
	if env.Code != errorx.CodeSuccess {
		if env.Code == errorx.CodeUnauthorized {
			return errorx.New(errorx.CodeUnauthorized, errorx.ErrNotAuthorized.Msg)
		}
		zap.L().Warn("api business error",
			zap.String("path", path),
			zap.Int("code", env.Code),
			zap.String("msg", env.Msg),
		)
		return errorx.New(env.Code, env.Msg)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errorx.Wrap(err, errorx.CodeRequestFailed, "响应解析失败")
		}
	}
	return nil
}

func (c *RestClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *RestClient) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *RestClient) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}
