package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"math-mentor-be/internal/dto"
)

// Learner is the episodic-memory write side, satisfied by the solver agent.
type Learner interface {
	Learn(ctx context.Context, problemText, solutionText, topic string) bool
}

type ILearnConsumerService interface {
	Consume(ctx context.Context) error
}

// learnConsumerService drains the learning bus: each message is one
// accepted solution to embed into episodic memory. Embedding happens off
// the request path so a slow provider never blocks the accept endpoint.
type learnConsumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	learner   Learner
}

func NewLearnConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	learner Learner,
) ILearnConsumerService {
	return &learnConsumerService{
		pubSub:    pubSub,
		topicName: topicName,
		learner:   learner,
	}
}

func (cs *learnConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *learnConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishLearnMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal learn message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Learning accepted solution for result %s (topic: %s)", payload.ResultId, payload.Topic)

	// Learn reports failure through its return value and its own logs.
	// A failed memory write is not retried; the knowledge base remains
	// the primary context source either way.
	if ok := cs.learner.Learn(ctx, payload.Problem, payload.Solution, payload.Topic); !ok {
		log.Printf("[WARN] Memory write failed for result %s", payload.ResultId)
	}

	msg.Ack()
}
