package publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/fjod/go_storefront/internal/repository"
	"github.com/segmentio/kafka-go"
)

const Topic = "sales-outbox"

// MessageWriter is the producer surface of kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OutboxPoller publishes committed receipts to kafka in append order. The
// sales log itself is the outbox; a cursor in the kv store tracks how far
// publishing has advanced, so a crash republishes at-least-once.
type OutboxPoller struct {
	timeout   time.Duration
	eventTick time.Duration
	batchSize int
	repo      repository.SalesRepository
	writer    MessageWriter
}

func NewOutboxPoller(repo repository.SalesRepository, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{time.Second * 5, time.Second, 100, repo, w}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	defer eventTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			p.publishPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) publishPending(ctx context.Context) {
	receipts, err := p.repo.UnpublishedReceipts(ctx, p.batchSize)
	if err != nil {
		log.Printf("failed to fetch unpublished receipts %v", err)
		return
	}

	for i := range receipts {
		receipt := &receipts[i]

		payload, errMarshal := json.Marshal(receipt)
		if errMarshal != nil {
			log.Printf("failed to marshal receipt %v: %v", receipt.TransactionID, errMarshal)
			return
		}

		writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
		errPublish := p.writer.WriteMessages(writeCtx, kafka.Message{
			Key:   []byte(receipt.TransactionID), // ordering per transaction
			Value: payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte("ReceiptCommitted")},
			},
		})
		cancel()
		if errPublish != nil {
			log.Printf("failed to publish receipt %v: %v", receipt.TransactionID, errPublish)
			return // keep order: retry the same receipt next tick
		}

		if errMark := p.repo.MarkReceiptPublished(ctx, receipt.TransactionID); errMark != nil {
			log.Printf("failed to mark receipt %v as published: %v", receipt.TransactionID, errMark)
			return
		}
	}
}
