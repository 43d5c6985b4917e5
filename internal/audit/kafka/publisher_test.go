package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"vetflow/internal/audit"
	"vetflow/internal/check"
	id "vetflow/pkg/domain"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.records = append(f.records, rs...)
	var out kgo.ProduceResults
	for _, r := range rs {
		out = append(out, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return out
}

func (f *fakeProducer) Close() {}

func sampleRecord() audit.Record {
	return audit.Record{
		ID:             id.NewEventID(),
		CheckID:        id.CheckID(uuid.New()),
		CandidateID:    id.CandidateID(uuid.New()),
		PreviousStatus: check.StatusPendingConsent,
		NewStatus:      check.StatusInProgress,
		ChangedBy:      audit.SystemActor,
		Reason:         "consent_granted",
		Timestamp:      time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
		Automated:      true,
		Metadata:       map[string]string{"source": "sweep"},
	}
}

func TestEncode(t *testing.T) {
	r := sampleRecord()
	value, err := Encode(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(value, &got))
	assert.Equal(t, r.CheckID.String(), got["check_id"])
	assert.Equal(t, "pending_consent", got["previous_status"])
	assert.Equal(t, "in_progress", got["new_status"])
	assert.Equal(t, "system", got["changed_by"])
	assert.Equal(t, true, got["automated"])
	assert.Equal(t, "2026-08-31T09:00:00Z", got["timestamp"])
}

func TestEncode_OmitsEmptyOptionalFields(t *testing.T) {
	r := sampleRecord()
	r.Reason = ""
	r.Metadata = nil
	value, err := Encode(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(value, &got))
	assert.NotContains(t, got, "reason")
	assert.NotContains(t, got, "metadata")
}

func TestPublish_KeysByCheckID(t *testing.T) {
	fake := &fakeProducer{}
	p := &Publisher{client: fake, topic: "vetflow.status-changes"}
	r := sampleRecord()

	require.NoError(t, p.Publish(context.Background(), r))
	require.Len(t, fake.records, 1)
	assert.Equal(t, []byte(r.CheckID.String()), fake.records[0].Key)
	assert.Equal(t, "vetflow.status-changes", fake.records[0].Topic)
}

func TestPublish_SurfacesProduceErrors(t *testing.T) {
	fake := &fakeProducer{err: errors.New("broker down")}
	p := &Publisher{client: fake, topic: "vetflow.status-changes"}

	err := p.Publish(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}
