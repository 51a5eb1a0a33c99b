package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskQuoteFollowUp = "crm.quote.followup"

type QuoteFollowUpPayload struct {
	RequestID string `json:"requestId"`
}

func NewQuoteFollowUpTask(payload QuoteFollowUpPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuoteFollowUp, data), nil
}

func ParseQuoteFollowUpPayload(task *asynq.Task) (QuoteFollowUpPayload, error) {
	var payload QuoteFollowUpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return QuoteFollowUpPayload{}, err
	}
	return payload, nil
}
