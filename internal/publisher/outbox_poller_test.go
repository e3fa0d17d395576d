package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

type mockSalesRepo struct {
	pending   []domain.Receipt
	published []string
	fetchErr  error
	markErr   error
}

func (m *mockSalesRepo) AppendReceipt(_ context.Context, r *domain.Receipt) error {
	m.pending = append(m.pending, *r)
	return nil
}

func (m *mockSalesRepo) AllReceipts(context.Context) ([]domain.Receipt, error) {
	return m.pending, nil
}

func (m *mockSalesRepo) UnpublishedReceipts(_ context.Context, limit int) ([]domain.Receipt, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	rest := m.pending[len(m.published):]
	if len(rest) > limit {
		rest = rest[:limit]
	}
	return rest, nil
}

func (m *mockSalesRepo) MarkReceiptPublished(_ context.Context, txID string) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.published = append(m.published, txID)
	return nil
}

type mockWriter struct {
	msgs []kafkaGo.Message
	err  error
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func newTestPoller(repo *mockSalesRepo, writer MessageWriter) *OutboxPoller {
	return &OutboxPoller{
		timeout:   time.Second,
		eventTick: time.Millisecond * 10,
		batchSize: 100,
		repo:      repo,
		writer:    writer,
	}
}

func TestPublishPending_PublishesInOrderAndMarks(t *testing.T) {
	repo := &mockSalesRepo{pending: []domain.Receipt{
		{TransactionID: "TX1", Total: 20.00},
		{TransactionID: "TX2", Total: 5.00},
	}}
	writer := &mockWriter{}
	poller := newTestPoller(repo, writer)

	poller.publishPending(context.Background())

	require.Len(t, writer.msgs, 2)
	assert.Equal(t, "TX1", string(writer.msgs[0].Key))
	assert.Equal(t, "TX2", string(writer.msgs[1].Key))
	assert.Equal(t, []string{"TX1", "TX2"}, repo.published)

	var payload domain.Receipt
	require.NoError(t, json.Unmarshal(writer.msgs[0].Value, &payload))
	assert.Equal(t, 20.00, payload.Total)

	require.Len(t, writer.msgs[0].Headers, 1)
	assert.Equal(t, "event_type", writer.msgs[0].Headers[0].Key)
	assert.Equal(t, "ReceiptCommitted", string(writer.msgs[0].Headers[0].Value))
}

func TestPublishPending_StopsOnWriteErrorToKeepOrder(t *testing.T) {
	repo := &mockSalesRepo{pending: []domain.Receipt{
		{TransactionID: "TX1"},
		{TransactionID: "TX2"},
	}}
	writer := &mockWriter{err: errors.New("broker down")}
	poller := newTestPoller(repo, writer)

	poller.publishPending(context.Background())

	assert.Empty(t, repo.published)

	// broker back up: the same receipts go out, still in order
	writer.err = nil
	poller.publishPending(context.Background())
	assert.Equal(t, []string{"TX1", "TX2"}, repo.published)
}

func TestPublishPending_FetchErrorIsRetriedNextTick(t *testing.T) {
	repo := &mockSalesRepo{fetchErr: errors.New("db locked")}
	writer := &mockWriter{}
	poller := newTestPoller(repo, writer)

	poller.publishPending(context.Background())
	assert.Empty(t, writer.msgs)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &mockSalesRepo{pending: []domain.Receipt{{TransactionID: "TX1"}}}
	writer := &mockWriter{}
	poller := newTestPoller(repo, writer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return len(repo.published) == 1
	}, time.Second, time.Millisecond*10)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestOutboxPoller_PublishesToKafka(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping kafka integration test in short mode")
	}

	ctx := context.Background()
	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	})

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)

	repo := &mockSalesRepo{pending: []domain.Receipt{
		{TransactionID: "TX1", Customer: domain.Customer{Name: "Ana"}, Total: 20.00},
	}}
	poller := NewOutboxPoller(repo, brokers...)

	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	go poller.Run(runCtx)

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  "test-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(runCtx)
	require.NoError(t, err)
	assert.Equal(t, "TX1", string(msg.Key))

	var payload domain.Receipt
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, 20.00, payload.Total)
	assert.Equal(t, []string{"TX1"}, repo.published)
}
