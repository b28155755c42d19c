package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"trivia-settlement-service/internal/app"
	"trivia-settlement-service/internal/domain"
	"trivia-settlement-service/internal/engine"
	"trivia-settlement-service/internal/infra/memory"
)

func newTestService() *app.SettlementService {
	cfg := engine.NewConfig(
		engine.AntiCheatConfig{MaxSubmissionsPerMinute: 30, SuspiciousScoreThreshold: 0.95},
		engine.SessionConfig{MaxResumeTime: time.Hour},
		engine.CreditsConfig{AdRewardDailyLimit: 5},
		map[domain.ModeType]engine.ModeConfig{
			domain.ModeFree: {
				Period:                    domain.PeriodWeekly,
				MaxWinners:                3,
				MinAnswersToQualify:       1,
				WinnerVisibilityThreshold: 1000,
				PayoutAmount:              50,
				PayoutCurrency:            "USD",
			},
		},
	)
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(sampleQuestionSets()), time.Minute)
	return app.NewSettlementService(
		memory.NewSessionStore(),
		questions,
		memory.NewPatternBuffer(),
		memory.NewWinnerStore(),
		memory.NewWalletStore(),
		cfg,
	)
}

func TestWebSocketSubmissionFlow(t *testing.T) {
	wsHandler := NewWSHandler(newTestService())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?userId=u1&periodId=FREE:WEEKLY:2026-08-24&questionSetId=set-1&seed=42"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msgType, payload := readNext(conn, t, "session")
	if msgType != "session" {
		t.Fatalf("expected session, got %s", msgType)
	}
	order, ok := payload["order"].([]any)
	if !ok || len(order) != 2 {
		t.Fatalf("expected 2 ordered questions, got %v", payload["order"])
	}
	first, ok := order[0].(map[string]any)
	if !ok {
		t.Fatalf("unexpected question shape %v", order[0])
	}
	questionID, _ := first["id"].(string)
	if questionID == "" {
		t.Fatalf("first question has no id")
	}

	submission := map[string]any{
		"type": "submission",
		"payload": map[string]any{
			"questionId":     questionID,
			"selectedOption": correctOptionFor(questionID),
			"responseTime":   4.2,
		},
	}
	if err := conn.WriteJSON(submission); err != nil {
		t.Fatalf("write submission: %v", err)
	}

	_, result := readNext(conn, t, "submissionResult")
	if accepted, _ := result["accepted"].(bool); !accepted {
		t.Fatalf("expected submission to be accepted, got %v", result)
	}
	if correct, _ := result["correct"].(bool); !correct {
		t.Fatalf("expected correct answer verdict, got %v", result)
	}
}

func TestWebSocketRejectsMissingParams(t *testing.T) {
	wsHandler := NewWSHandler(newTestService())
	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	resp, err := http.Get(server.URL + "?userId=u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func correctOptionFor(questionID string) string {
	for _, q := range sampleQuestionSets()["set-1"].Questions {
		if q.ID != questionID {
			continue
		}
		for _, opt := range q.Options {
			if opt.Correct {
				return opt.ID
			}
		}
	}
	return ""
}

func sampleQuestionSets() map[string]domain.QuestionSet {
	return map[string]domain.QuestionSet{
		"set-1": {
			ID: "set-1",
			Questions: []domain.Question{
				{
					ID:     "q1",
					Prompt: "What is 2 + 2?",
					Options: []domain.Option{
						{ID: "o1", Text: "3", Correct: false},
						{ID: "o2", Text: "4", Correct: true},
					},
				},
				{
					ID:     "q2",
					Prompt: "What is 3 * 3?",
					Options: []domain.Option{
						{ID: "o1", Text: "9", Correct: true},
						{ID: "o2", Text: "6", Correct: false},
					},
				},
			},
		},
	}
}
