//go:build integration

// Package integration 端到端测试，需要先启动服务（go run ./cmd/api）
//
//	go test -tags=integration ./test/integration/...
//
// 管理员账号使用config.yaml中auth.admin_emails的第一个邮箱
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second

	testPassword = "Test1234"
)

var (
	// ServerURL 服务地址，GAMESUP_SERVER_URL可覆盖
	ServerURL = envOr("GAMESUP_SERVER_URL", "http://localhost:8080")
	// BaseURL API基础URL
	BaseURL = ServerURL + "/api/v1"
)

// AdminEmail 管理员邮箱，需与服务端auth.admin_emails一致
var AdminEmail = envOr("GAMESUP_ADMIN_EMAIL", "admin@gamesup.io")

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type LoginData struct {
	User struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
	AccessToken string `json:"access_token"`
}

type GameData struct {
	ID        uint   `json:"id"`
	Slug      string `json:"slug"`
	BasePrice string `json:"base_price"`
	Currency  string `json:"currency"`
}

type PurchaseData struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Status      string `json:"status"`
	Currency    string `json:"currency"`
	TotalAmount string `json:"total_amount"`
	Lines       []struct {
		ID                  uint   `json:"id"`
		ItemID              uint   `json:"item_id"`
		Quantity            int    `json:"quantity"`
		UnitPriceAtPurchase string `json:"unit_price_at_purchase"`
	} `json:"lines"`
	PaidAt *string `json:"paid_at"`
}

// Client 带Token的测试客户端
type Client struct {
	t     *testing.T
	http  *http.Client
	token string
	ID    uint
	Role  string
}

func (c *Client) Do(method, path string, body interface{}) *Response {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err, "JSON序列化失败")
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, BaseURL+path, reader)
	require.NoError(c.t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err, "读取响应体失败")

	result := &Response{Status: resp.StatusCode}
	require.NoError(c.t, json.Unmarshal(raw, result), "解析JSON响应失败: %s", string(raw))
	return result
}

// Decode 断言成功并解析data
func Decode[T any](t *testing.T, resp *Response) T {
	t.Helper()
	require.Equal(t, 0, resp.Code, "请求失败: %d %s", resp.Status, resp.Message)

	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

// Anonymous 未登录客户端，服务不可用时跳过测试
func Anonymous(t *testing.T) *Client {
	t.Helper()
	hc := &http.Client{Timeout: Timeout}
	resp, err := hc.Get(ServerURL + "/ping")
	if err != nil {
		t.Skipf("服务未启动: %v", err)
	}
	resp.Body.Close()
	return &Client{t: t, http: hc}
}

// NewPlayer 注册并登录一个普通用户
func NewPlayer(t *testing.T, nickname string) *Client {
	t.Helper()
	email := fmt.Sprintf("%s_%d@test.gamesup.io", nickname, time.Now().UnixNano())
	c := Anonymous(t)
	Decode[json.RawMessage](t, c.Do(http.MethodPost, "/users/register", map[string]string{
		"email": email, "password": testPassword, "nickname": nickname,
	}))
	return c.login(email)
}

// Admin 登录管理员，首次运行时先注册
func Admin(t *testing.T) *Client {
	t.Helper()
	c := Anonymous(t)
	c.Do(http.MethodPost, "/users/register", map[string]string{
		"email": AdminEmail, "password": testPassword, "nickname": "admin",
	})
	admin := c.login(AdminEmail)
	require.Equal(t, "ADMIN", admin.Role, "管理员邮箱未配置在auth.admin_emails中")
	return admin
}

func (c *Client) login(email string) *Client {
	c.t.Helper()
	data := Decode[LoginData](c.t, c.Do(http.MethodPost, "/users/login", map[string]string{
		"email": email, "password": testPassword,
	}))
	return &Client{t: c.t, http: c.http, token: data.AccessToken, ID: data.User.ID, Role: data.User.Role}
}

// PublishGame 管理员发布游戏，标题带时间戳保证slug唯一
func (c *Client) PublishGame(title, price string) GameData {
	c.t.Helper()
	return Decode[GameData](c.t, c.Do(http.MethodPost, "/games", map[string]string{
		"title":      fmt.Sprintf("%s %d", title, time.Now().UnixNano()),
		"base_price": price,
		"currency":   "EUR",
	}))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
