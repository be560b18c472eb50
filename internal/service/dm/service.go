// Package dm 提供私信相关的业务逻辑
package dm

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"eternal_memories_server/internal/dao/mysql/repository"
	"eternal_memories_server/internal/dto/respond"
	"eternal_memories_server/internal/model"
	"eternal_memories_server/pkg/constants"
	"eternal_memories_server/pkg/errorx"
)

// dmService 私信业务逻辑实现
type dmService struct {
	repos *repository.Repositories
}

// NewDirectMessageService 构造函数，注入 Repository 依赖
func NewDirectMessageService(repos *repository.Repositories) *dmService {
	return &dmService{repos: repos}
}

// findPeer 按用户名取对方用户，查无返回 CodeNotFound
func (d *dmService) findPeer(peerUsername string) (*model.UserInfo, error) {
	peer, err := d.repos.User.FindByUsername(peerUsername)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "用户不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return peer, nil
}

// SendMessage 发送私信
// 接收者必须存在且不是发送者本人，内容去除首尾空白后不可为空
func (d *dmService) SendMessage(senderUuid, receiverUsername, content string) (*respond.SendDirectMessageRespond, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}

	receiver, err := d.findPeer(receiverUsername)
	if err != nil {
		return nil, err
	}
	if receiver.Uuid == senderUuid {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能给自己发私信")
	}

	sender, err := d.repos.User.FindByUuid(senderUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	message := &model.DirectMessage{
		SenderUuid:   senderUuid,
		ReceiverUuid: receiver.Uuid,
		Content:      content,
	}
	if err := d.repos.DirectMessage.Create(message); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	return &respond.SendDirectMessageRespond{
		Status:       "ok",
		ID:           message.ID,
		Message:      message.Content,
		Sender:       sender.Username,
		CreatedAt:    message.CreatedAt.Format(constants.DISPLAY_TIME_LAYOUT),
		CreatedAtIso: message.CreatedAt.Format(time.RFC3339),
	}, nil
}

// buildItems 将私信批量换成响应条目，发送者展示为用户名
func (d *dmService) buildItems(messages []model.DirectMessage, viewer, peer *model.UserInfo) []respond.DirectMessageRespond {
	nameByUuid := map[string]string{
		viewer.Uuid: viewer.Username,
		peer.Uuid:   peer.Username,
	}
	items := make([]respond.DirectMessageRespond, 0, len(messages))
	for _, m := range messages {
		items = append(items, respond.DirectMessageRespond{
			ID:        m.ID,
			Sender:    nameByUuid[m.SenderUuid],
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}
	return items
}

// loadParticipants 加载会话双方
func (d *dmService) loadParticipants(viewerUuid, peerUsername string) (viewer, peer *model.UserInfo, err error) {
	peer, err = d.findPeer(peerUsername)
	if err != nil {
		return nil, nil, err
	}
	viewer, err = d.repos.User.FindByUuid(viewerUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, nil, errorx.ErrServerBusy
	}
	return viewer, peer, nil
}

// markRead 将对方发给查看者的未读消息置为已读
// 每次成功的拉取都会执行，包括空结果的拉取
func (d *dmService) markRead(viewerUuid, peerUuid string) error {
	if err := d.repos.DirectMessage.MarkRead(viewerUuid, peerUuid); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// latestWindow 取两人最新一窗消息并反转为时间升序
func (d *dmService) latestWindow(viewerUuid, peerUuid string) ([]model.DirectMessage, error) {
	messages, err := d.repos.DirectMessage.FindLatestBetween(viewerUuid, peerUuid, constants.FEED_PAGE_SIZE)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// InitialThread 首屏加载会话
// 返回最新一窗消息（升序）和游标时间戳，同时把对方发来的未读消息置为已读
func (d *dmService) InitialThread(viewerUuid, peerUsername string) (*respond.DirectMessageFeedRespond, error) {
	viewer, peer, err := d.loadParticipants(viewerUuid, peerUsername)
	if err != nil {
		return nil, err
	}

	messages, err := d.latestWindow(viewer.Uuid, peer.Uuid)
	if err != nil {
		return nil, err
	}

	if err := d.markRead(viewer.Uuid, peer.Uuid); err != nil {
		return nil, err
	}

	rsp := &respond.DirectMessageFeedRespond{
		Results: d.buildItems(messages, viewer, peer),
	}
	if len(messages) > 0 {
		rsp.LatestTimestamp = messages[len(messages)-1].CreatedAt.Format(time.RFC3339)
	}
	return rsp, nil
}

// parseSince 解析增量拉取游标，解析失败返回 false
func parseSince(since string) (time.Time, bool) {
	since = strings.TrimSpace(since)
	if since == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, since); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FetchThread 增量拉取会话
// since 有效时返回其后的消息，否则退化为首屏窗口；
// 无论是否有新消息，每次成功调用都执行已读标记
func (d *dmService) FetchThread(viewerUuid, peerUsername, since string) (*respond.DirectMessageFeedRespond, error) {
	viewer, peer, err := d.loadParticipants(viewerUuid, peerUsername)
	if err != nil {
		return nil, err
	}

	var messages []model.DirectMessage
	if t, ok := parseSince(since); ok {
		messages, err = d.repos.DirectMessage.FindBetweenSince(viewer.Uuid, peer.Uuid, t, constants.FEED_PAGE_SIZE)
		if err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
	} else {
		messages, err = d.latestWindow(viewer.Uuid, peer.Uuid)
		if err != nil {
			return nil, err
		}
	}

	if err := d.markRead(viewer.Uuid, peer.Uuid); err != nil {
		return nil, err
	}

	return &respond.DirectMessageFeedRespond{
		Results: d.buildItems(messages, viewer, peer),
	}, nil
}
