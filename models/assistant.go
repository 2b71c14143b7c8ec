package models

// AssistantQuestion is a message sent to the El Dato assistant
type AssistantQuestion struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// AssistantReply is the assistant's answer in plain text
type AssistantReply struct {
	Text string `json:"text"`
}
