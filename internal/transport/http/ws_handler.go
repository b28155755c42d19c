package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"trivia-settlement-service/internal/app"
	"trivia-settlement-service/internal/domain"
)

type WSHandler struct {
	service  *app.SettlementService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.SettlementService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type submissionPayload struct {
	QuestionID     string  `json:"questionId"`
	SelectedOption string  `json:"selectedOption"`
	IsSkipped      bool    `json:"isSkipped"`
	ResponseTime   float64 `json:"responseTime"`
	DeviceID       string  `json:"deviceId"`
	IPAddress      string  `json:"ipAddress"`
}

type winnersPayload struct {
	PeriodID string `json:"periodId"`
	Mode     string `json:"mode"`
}

type integrityAlert struct {
	SessionID string   `json:"sessionId"`
	RiskLevel string   `json:"riskLevel"`
	Reasons   []string `json:"reasons"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request, starts a game session for the caller, and
// speaks the submission protocol until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	periodID := r.URL.Query().Get("periodId")
	setID := r.URL.Query().Get("questionSetId")
	if userID == "" || periodID == "" || setID == "" {
		http.Error(w, "missing userId, periodId, or questionSetId", http.StatusBadRequest)
		return
	}
	var seed *uint64
	if raw := r.URL.Query().Get("seed"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
		seed = &parsed
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	started, err := h.service.StartSession(r.Context(), userID, periodID, setID, seed)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: started}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "submission":
			var payload submissionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid submission payload"}}
				continue
			}
			result, err := h.service.RecordSubmission(r.Context(), domain.Submission{
				SessionID:      started.Session.ID,
				QuestionID:     payload.QuestionID,
				SelectedOption: payload.SelectedOption,
				IsSkipped:      payload.IsSkipped,
				ResponseTime:   payload.ResponseTime,
				DeviceID:       payload.DeviceID,
				IPAddress:      payload.IPAddress,
			})
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "submissionResult", Payload: result}
			if result.AntiCheat.RiskLevel >= domain.RiskHigh {
				send <- outboundMessage[any]{Type: "integrityAlert", Payload: integrityAlert{
					SessionID: started.Session.ID,
					RiskLevel: result.AntiCheat.RiskLevel.String(),
					Reasons:   result.AntiCheat.Reasons,
				}}
			}
		case "winners":
			var payload winnersPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid winners payload"}}
				continue
			}
			board, err := h.service.WinnersView(r.Context(), payload.PeriodID, domain.ModeType(payload.Mode), userID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "winners", Payload: board}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
}
