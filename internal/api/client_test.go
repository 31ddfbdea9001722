package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tutor_chat_client/internal/config"
	"tutor_chat_client/internal/dto/request"
	"tutor_chat_client/pkg/errorx"
)

func newTestClient(handler http.Handler) (*RestClient, *httptest.Server) {
	ts := httptest.NewServer(handler)
	cfg := config.DefaultConfig()
	cfg.ServerConfig.BaseURL = ts.URL
	return NewRestClient(cfg, "test-token"), ts
}

func okEnvelope(data any) []byte {
	raw, _ := json.Marshal(data)
	out, _ := json.Marshal(map[string]any{
		"code": errorx.CodeSuccess,
		"msg":  "success",
		"data": json.RawMessage(raw),
	})
	return out
}

func TestGetConversationsDecodesEnvelope(t *testing.T) {
	var gotAuth string
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/messages/conversations" {
			t.Errorf("请求路径不符: %s", r.URL.Path)
		}
		w.Write(okEnvelope([]map[string]any{
			{
				"counterpartId": "tut_carol",
				"user":          map[string]string{"name": "Carol", "email": "carol@example.com"},
				"lastMessage":   "hi",
				"unreadCount":   2,
			},
		}))
	}))
	defer ts.Close()

	list, err := client.GetConversations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].CounterpartId != "tut_carol" || list[0].User.Name != "Carol" || list[0].UnreadCount != 2 {
		t.Errorf("响应解析不正确: %+v", list)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("鉴权头不正确: %q", gotAuth)
	}
}

func TestHttpForbiddenMapsToUnauthorized(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	err := client.SendMessage(context.Background(), request.SendMessageRequest{
		ReceiverId:   "stu_bob",
		Content:      "hi",
		SenderType:   "student",
		ReceiverType: "student",
	})
	if !errorx.IsUnauthorized(err) {
		t.Fatalf("HTTP 403 应映射为未授权错误, 实际 %v", err)
	}
}

func TestBusinessCodeUnauthorized(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// HTTP 200 但业务码为未授权
		json.NewEncoder(w).Encode(map[string]any{
			"code": errorx.CodeUnauthorized,
			"msg":  "forbidden",
		})
	}))
	defer ts.Close()

	_, err := client.GetConversation(context.Background(), "stu_bob")
	if !errorx.IsUnauthorized(err) {
		t.Fatalf("业务未授权码应映射为未授权错误, 实际 %v", err)
	}
}

func TestNotFoundMapped(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := client.GetUnreadCount(context.Background())
	if !errorx.IsNotFound(err) {
		t.Fatalf("HTTP 404 应映射为不存在错误, 实际 %v", err)
	}
}

func TestServerErrorIsGenericFailure(t *testing.T) {
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := client.GetNotifications(context.Background(), 20)
	if errorx.GetCode(err) != errorx.CodeRequestFailed {
		t.Fatalf("HTTP 500 应映射为通用请求失败, 实际 %v", err)
	}
	if errorx.IsUnauthorized(err) || errorx.IsNotFound(err) {
		t.Error("通用失败不应命中未授权/不存在判定")
	}
}

func TestSendMessageValidatesBeforeRequest(t *testing.T) {
	requests := 0
	client, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(okEnvelope(nil))
	}))
	defer ts.Close()

	err := client.SendMessage(context.Background(), request.SendMessageRequest{
		ReceiverId: "stu_bob",
		// content 缺失
		SenderType:   "student",
		ReceiverType: "tutor",
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("空消息应在本地校验失败, 实际 %v", err)
	}
	if requests != 0 {
		t.Error("校验失败不应发出请求")
	}

	err = client.SendMessage(context.Background(), request.SendMessageRequest{
		ReceiverId:   "stu_bob",
		Content:      "hi",
		SenderType:   "student",
		ReceiverType: "cat", // 非法角色
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("非法角色应在本地校验失败, 实际 %v", err)
	}
}
