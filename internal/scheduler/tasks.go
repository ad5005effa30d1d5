package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskIntentHandoff = "intent.handoff"

// HandoffPayload is everything a department needs to pick up a chat that
// the widget should not answer on its own.
type HandoffPayload struct {
	HandoffID       string    `json:"handoffId" validate:"required,uuid"`
	RequestID       string    `json:"requestId,omitempty"`
	SessionID       string    `json:"sessionId,omitempty"`
	PageURL         string    `json:"pageUrl,omitempty"`
	Text            string    `json:"text"`
	Intent          string    `json:"intent" validate:"required,intent"`
	Confidence      float64   `json:"confidence" validate:"gte=0,lte=1"`
	Urgency         string    `json:"urgency" validate:"required,urgency"`
	Department      string    `json:"department" validate:"required"`
	Priority        int       `json:"priority" validate:"min=1"`
	SuggestedAction string    `json:"suggestedAction"`
	Services        []string  `json:"services,omitempty"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	ClassifiedAt    time.Time `json:"classifiedAt"`
}

func NewIntentHandoffTask(payload HandoffPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIntentHandoff, data), nil
}

func ParseIntentHandoffPayload(task *asynq.Task) (HandoffPayload, error) {
	var payload HandoffPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return HandoffPayload{}, err
	}
	return payload, nil
}
