// Package kafka publishes status-change records to a Kafka topic so
// downstream systems (compliance reporting, exports) can consume the audit
// trail without reading our database.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"vetflow/internal/audit"
)

// payload is the JSON structure published to Kafka. Field names are part
// of the external contract; change them only with consumer coordination.
type payload struct {
	ID             string            `json:"id"`
	CheckID        string            `json:"check_id"`
	CandidateID    string            `json:"candidate_id"`
	PreviousStatus string            `json:"previous_status"`
	NewStatus      string            `json:"new_status"`
	ChangedBy      string            `json:"changed_by"`
	ChangedByName  string            `json:"changed_by_name,omitempty"`
	Reason         string            `json:"reason,omitempty"`
	Timestamp      string            `json:"timestamp"`
	Automated      bool              `json:"automated"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// producer is the slice of *kgo.Client the sink needs; a seam for tests.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Publisher is an audit.Sink backed by a Kafka topic. Records are keyed by
// check id so per-check ordering is preserved within a partition.
type Publisher struct {
	client producer
	topic  string
}

// New connects to the given brokers. The caller owns Close.
func New(brokers []string, topic string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &Publisher{client: client, topic: topic}, nil
}

func (p *Publisher) Publish(ctx context.Context, r audit.Record) error {
	value, err := Encode(r)
	if err != nil {
		return err
	}
	rec := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(r.CheckID.String()),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	p.client.Close()
}

// Encode marshals a record into the wire payload.
func Encode(r audit.Record) ([]byte, error) {
	out, err := json.Marshal(payload{
		ID:             r.ID.String(),
		CheckID:        r.CheckID.String(),
		CandidateID:    r.CandidateID.String(),
		PreviousStatus: string(r.PreviousStatus),
		NewStatus:      string(r.NewStatus),
		ChangedBy:      r.ChangedBy,
		ChangedByName:  r.ChangedByName,
		Reason:         r.Reason,
		Timestamp:      r.Timestamp.Format(time.RFC3339Nano),
		Automated:      r.Automated,
		Metadata:       r.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal audit payload: %w", err)
	}
	return out, nil
}
