package respond

// ReactionSummary 用户收到的表态汇总
type ReactionSummary struct {
	Like    int64 `json:"like"`
	Love    int64 `json:"love"`
	Support int64 `json:"support"`
}

// ProfileDetailRespond 个人主页聚合响应
// 包含资料、近期私信会话预览和其作品收到的表态汇总
// 使用位置:
//   - internal/service/user/service.go: GetProfileDetail
type ProfileDetailRespond struct {
	Profile        ProfileRespond         `json:"profile"`
	Reactions      ReactionSummary        `json:"reactions"`
	RecentMessages []DirectMessageRespond `json:"recent_messages"`
}
