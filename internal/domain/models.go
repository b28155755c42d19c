package domain

import "time"

// PeriodType identifies the cadence of a competition window.
type PeriodType string

const (
	PeriodWeekly  PeriodType = "WEEKLY"
	PeriodMonthly PeriodType = "MONTHLY"
)

// ModeType identifies a game mode. The set of modes is administrator-configured;
// these are the ones the platform ships with.
type ModeType string

const (
	ModeFree    ModeType = "FREE"
	ModePremium ModeType = "PREMIUM"
)

// PeriodStatus is the lifecycle state of a competition window.
type PeriodStatus string

const (
	PeriodUpcoming  PeriodStatus = "UPCOMING"
	PeriodActive    PeriodStatus = "ACTIVE"
	PeriodCompleted PeriodStatus = "COMPLETED"
	PeriodCancelled PeriodStatus = "CANCELLED"
)

// Period is a scheduled competition window within a game mode.
// Invariant: StartDate < EndDate.
type Period struct {
	ID        string       `json:"id"`
	Mode      ModeType     `json:"mode"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
}

// SessionStatus is the recorded state of a player's competition attempt.
type SessionStatus string

const (
	SessionActive    SessionStatus = "ACTIVE"
	SessionPaused    SessionStatus = "PAUSED"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionExpired   SessionStatus = "EXPIRED"
	SessionCancelled SessionStatus = "CANCELLED"
)

// GameSession is one player's attempt within a period. Score is always equal
// to CorrectAnswers: one point per correct answer, nothing for incorrect or
// skipped. COMPLETED and EXPIRED are terminal.
type GameSession struct {
	ID                   string        `json:"id"`
	UserID               string        `json:"userId"`
	PeriodID             string        `json:"periodId"`
	QuestionSetID        string        `json:"questionSetId"`
	Status               SessionStatus `json:"status"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex"`
	TotalQuestions       int           `json:"totalQuestions"`
	Score                int           `json:"score"`
	AnsweredQuestions    int           `json:"answeredQuestions"`
	CorrectAnswers       int           `json:"correctAnswers"`
	IncorrectAnswers     int           `json:"incorrectAnswers"`
	SkippedAnswers       int           `json:"skippedAnswers"`
	TotalTimeSpent       float64       `json:"totalTimeSpent"`      // seconds
	AverageResponseTime  float64       `json:"averageResponseTime"` // seconds
	StartedAt            time.Time     `json:"startedAt"`
	LastActivityAt       time.Time     `json:"lastActivityAt"`
	CompletedAt          *time.Time    `json:"completedAt,omitempty"`
}

// SessionValidation classifies a session snapshot for resume/reject decisions.
// It never mutates the session; callers apply the verdict to persisted state.
type SessionValidation struct {
	IsValid   bool   `json:"isValid"`
	CanResume bool   `json:"canResume"`
	Reason    string `json:"reason,omitempty"`
}

// LeaderboardEntry is a read-only settlement-time snapshot of a qualifying
// session. Built once at period close, never mutated afterward.
type LeaderboardEntry struct {
	UserID              string    `json:"userId"`
	SessionID           string    `json:"sessionId"`
	Score               int       `json:"score"`
	AverageResponseTime float64   `json:"averageResponseTime"`
	CompletedAt         time.Time `json:"completedAt"`
	AnsweredQuestions   int       `json:"answeredQuestions"`
	IsQualified         bool      `json:"isQualified"`
}

// WinnerStatus tracks payout progress for a winner record.
type WinnerStatus string

const (
	WinnerPending  WinnerStatus = "PENDING"
	WinnerApproved WinnerStatus = "APPROVED"
	WinnerPaid     WinnerStatus = "PAID"
	WinnerRejected WinnerStatus = "REJECTED"
)

// Winner is a real, payable winner record produced at settlement.
// Rank is 1-based, contiguous, and unique within a period.
type Winner struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	PeriodID       string       `json:"periodId"`
	Rank           int          `json:"rank"`
	Score          int          `json:"score"`
	PayoutAmount   float64      `json:"payoutAmount"`
	PayoutCurrency string       `json:"payoutCurrency"`
	Status         WinnerStatus `json:"status"`
}

// SyntheticWinner is a display-only placeholder shown to viewers below the
// winner-visibility threshold. It deliberately carries no user or period
// reference so it can never be persisted as a Winner or trigger a payout.
type SyntheticWinner struct {
	Rank           int          `json:"rank"`
	DisplayName    string       `json:"displayName"`
	Score          int          `json:"score"`
	PayoutAmount   float64      `json:"payoutAmount"`
	PayoutCurrency string       `json:"payoutCurrency"`
	Status         WinnerStatus `json:"status"`
	PaidAt         time.Time    `json:"paidAt"`
}

// WinnerBoard is the per-viewer answer to "who won". Exactly one of Winners
// or Placeholders is populated, and Synthetic says which.
type WinnerBoard struct {
	PeriodID     string            `json:"periodId"`
	Synthetic    bool              `json:"synthetic"`
	Winners      []Winner          `json:"winners,omitempty"`
	Placeholders []SyntheticWinner `json:"placeholders,omitempty"`
}

// RiskLevel is a coarse advisory classification of submission behavior.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	default:
		return "LOW"
	}
}

// AntiCheatCheck is the rolling per-session view handed to the detector.
// Device and IP metadata are carried through for downstream correlation but
// not interpreted by the detector itself.
type AntiCheatCheck struct {
	SubmissionRate      float64 `json:"submissionRate"` // submissions/minute over a trailing window
	ScorePattern        []bool  `json:"scorePattern"`   // ordered correctness sequence
	AverageResponseTime float64 `json:"averageResponseTime"`
	DeviceID            string  `json:"deviceId,omitempty"`
	IPAddress           string  `json:"ipAddress,omitempty"`
}

// AntiCheatResult is advisory: the engine never blocks play itself, callers
// decide enforcement.
type AntiCheatResult struct {
	IsSuspicious bool      `json:"isSuspicious"`
	Reasons      []string  `json:"reasons,omitempty"`
	RiskLevel    RiskLevel `json:"riskLevel"`
}

// PatternSample is one submission's contribution to the rolling anti-cheat
// buffer of a session.
type PatternSample struct {
	Correct      bool      `json:"correct"`
	ResponseTime float64   `json:"responseTime"`
	DeviceID     string    `json:"deviceId,omitempty"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	At           time.Time `json:"at"`
}

// Wallet is the credits read model consumed by the credits policy and the
// winner gate. This service reads it; the wallet service owns mutation.
type Wallet struct {
	UserID           string     `json:"userId"`
	CreditsBalance   int64      `json:"creditsBalance"`
	LifetimeEarnings float64    `json:"lifetimeEarnings"`
	LastDailyClaimAt *time.Time `json:"lastDailyClaimAt,omitempty"`
	AdRewardsToday   int        `json:"adRewardsToday"`
	AdRewardsResetAt time.Time  `json:"adRewardsResetAt"`
}

// Submission is one answer event from a client.
type Submission struct {
	SessionID      string  `json:"sessionId"`
	QuestionID     string  `json:"questionId"`
	SelectedOption string  `json:"selectedOption,omitempty"`
	IsSkipped      bool    `json:"isSkipped"`
	ResponseTime   float64 `json:"responseTime"` // seconds
	DeviceID       string  `json:"deviceId,omitempty"`
	IPAddress      string  `json:"ipAddress,omitempty"`
}

// Option represents a possible answer for a question.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// QuestionSet is the pool of questions a session draws from.
type QuestionSet struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}
