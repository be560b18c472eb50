package respond

// CommunityFeedItem 频道消息流单条记录
// created_at 为 ISO 格式，前端用它维护增量拉取游标
type CommunityFeedItem struct {
	ID        uint   `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// CommunityFeedRespond 频道消息流响应
// 使用位置:
//   - internal/service/community/service.go: Feed
type CommunityFeedRespond struct {
	Results []CommunityFeedItem `json:"results"`
	// LatestTimestamp 本窗口最新一条消息的 ISO 时间戳，窗口为空时为空字符串
	// 仅在首屏加载时返回给模板使用，不参与 results 序列化
	LatestTimestamp string `json:"-"`
}
