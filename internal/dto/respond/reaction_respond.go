package respond

// ReactionCounts 各类表态的实时计数
type ReactionCounts struct {
	Like    int64 `json:"like"`
	Love    int64 `json:"love"`
	Support int64 `json:"support"`
}

// ReactionRespond 表态切换响应
// Active 表示操作后当前用户是否仍有生效的表态，Type 为生效的表态类型
// 使用位置:
//   - internal/service/reaction/service.go: Toggle
type ReactionRespond struct {
	Status string         `json:"status"`
	Counts ReactionCounts `json:"counts"`
	Active bool           `json:"active"`
	Type   string         `json:"type"`
}
