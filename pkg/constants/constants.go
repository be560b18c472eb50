package constants

import "time"

const (
	FEED_PAGE_SIZE             = 50  // 消息流单次返回上限（社区频道与私信共用）
	PROFILE_SEARCH_MAX         = 20  // 用户搜索单次返回上限
	PROFILE_CONVO_SIZE         = 20  // 个人主页会话预览条数
	REFRESH_TOKEN_EXPIRY_HOURS = 168 // Refresh Token 有效期（小时），168小时 = 7天

	DEFAULT_CHANNEL_NAME = "general" // 社区创建时自动建立的默认频道名

	// 时间展示格式，对应前端的 "Aug 29, 2026 05:04 PM"
	DISPLAY_TIME_LAYOUT = "Jan 02, 2006 03:04 PM"

	IMAGE_JOB_POLL_INTERVAL = 5 * time.Second // AI 图片任务轮询间隔
	IMAGE_JOB_MAX_POLLS     = 36              // 最多轮询次数，约 3 分钟
)
