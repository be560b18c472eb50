package respond

// DirectMessageRespond 私信消息流单条记录
// 使用位置:
//   - internal/service/dm/service.go: Thread, FetchSince
type DirectMessageRespond struct {
	ID        uint   `json:"id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// DirectMessageFeedRespond 私信消息流响应
type DirectMessageFeedRespond struct {
	Results []DirectMessageRespond `json:"results"`
	// LatestTimestamp 同 CommunityFeedRespond，仅供首屏模板使用
	LatestTimestamp string `json:"-"`
}
