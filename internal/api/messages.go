package api

import (
	"context"

	"tutor_chat_client/internal/dto/request"
	"tutor_chat_client/internal/dto/respond"
	"tutor_chat_client/pkg/errorx"
)

// GetConversations 拉取当前用户的会话摘要列表
// GET /messages/conversations
func (c *RestClient) GetConversations(ctx context.Context) ([]respond.ConversationSummaryRespond, error) {
	var list []respond.ConversationSummaryRespond
	if err := c.get(ctx, "/messages/conversations", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetConversation 拉取与指定对端的消息历史（服务端按时间升序返回）
// GET /messages/conversation/{counterpartId}
func (c *RestClient) GetConversation(ctx context.Context, counterpartId string) ([]respond.MessageRespond, error) {
	var list []respond.MessageRespond
	if err := c.get(ctx, "/messages/conversation/"+counterpartId, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SendMessage 持久化一条消息
// POST /messages/send
// 对端不在允许的师生关系内时返回未授权错误（不重试）
func (c *RestClient) SendMessage(ctx context.Context, req request.SendMessageRequest) error {
	if err := validate.Struct(&req); err != nil {
		return errorx.Wrap(err, errorx.CodeInvalidParam, errorx.ErrInvalidParam.Msg)
	}
	return c.post(ctx, "/messages/send", req, nil)
}
