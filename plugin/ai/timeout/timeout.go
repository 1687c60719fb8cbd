// Package timeout defines centralized timeout and retry constants for training sessions.
// Package timeout 定义训练会话的集中式超时与重试常量。
package timeout

import "time"

// Session timeout constants.
// 会话超时常量。
const (
	// WarmupTimeout is the per-read budget while waiting for the warm-up reply.
	// WarmupTimeout 是等待热身回复时单次读取的超时时间。
	WarmupTimeout = 300 * time.Second

	// AttemptTimeout is the per-attempt budget for an answer.
	// AttemptTimeout 是单次作答的超时时间。
	AttemptTimeout = 60 * time.Second

	// SessionTimeout is the hard cap on a whole session.
	// SessionTimeout 是整个会话的硬性上限。
	SessionTimeout = 1800 * time.Second

	// JudgeTimeout is the timeout for one semantic judge call.
	// JudgeTimeout 是单次语义评判调用的超时时间。
	JudgeTimeout = 15 * time.Second

	// MaxAttempts is the default number of attempts per fact.
	// MaxAttempts 是每个事实默认的作答次数。
	MaxAttempts = 3

	// InputRetries is the default number of read windows for an answer.
	// InputRetries 是作答时默认的读取窗口数。
	InputRetries = 2

	// WarmupRetries is the default number of read windows for the warm-up.
	// WarmupRetries 是热身阶段默认的读取窗口数。
	WarmupRetries = 3

	// MaxNeutralReplies caps acknowledgements and questions inside one attempt.
	// MaxNeutralReplies 限制单次作答中确认语与提问的次数。
	MaxNeutralReplies = 3

	// LogRetentionDays is how long session logs are kept before cleanup.
	// LogRetentionDays 是会话日志在清理前保留的天数。
	LogRetentionDays = 90

	// CleanupInterval is the interval between session log cleanups.
	// CleanupInterval 是会话日志清理的间隔。
	CleanupInterval = 24 * time.Hour
)
