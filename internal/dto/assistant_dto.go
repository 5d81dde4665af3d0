package dto

// AssistantMessageRequest carries a chatbot prompt.
type AssistantMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// AssistantMessageResponse carries the chatbot reply.
type AssistantMessageResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}
