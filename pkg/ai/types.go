package ai

import "context"

// Message is a single turn in an assistant conversation.
type Message struct {
	Role    string
	Content string
}

// Assistant describes an AI model capable of answering portal questions.
type Assistant interface {
	Reply(ctx context.Context, history []Message, message string) (string, error)
}
