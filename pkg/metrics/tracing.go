package metrics

import (
	"context"
	"crypto/ed25519"
	"time"

	"github.com/mr-tron/base58"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// MethodTracer is a segment for a single method call within the New Relic
// transaction on a context. Every method is a no-op on a nil MethodTracer,
// which is what TraceMethodCall returns for contexts without a transaction.
type MethodTracer struct {
	ctx     context.Context
	name    string
	start   time.Time
	txn     *newrelic.Transaction
	segment *newrelic.Segment
}

func TraceMethodCall(ctx context.Context, structOrPackageName, methodName string) *MethodTracer {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return nil
	}

	name := structOrPackageName + " " + methodName
	return &MethodTracer{
		ctx:     ctx,
		name:    name,
		start:   time.Now(),
		txn:     txn,
		segment: txn.StartSegment(name),
	}
}

func (t *MethodTracer) AddAttribute(key string, value interface{}) {
	if t == nil {
		return
	}
	t.segment.AddAttribute(key, value)
}

func (t *MethodTracer) AddAttributes(attributes map[string]interface{}) {
	for key, value := range attributes {
		t.AddAttribute(key, value)
	}
}

// AddKeyAttribute adds an account address attribute in its base58 form
func (t *MethodTracer) AddKeyAttribute(key string, value ed25519.PublicKey) {
	t.AddAttribute(key, base58.Encode(value))
}

// OnError notices err on the enclosing transaction
func (t *MethodTracer) OnError(err error) {
	if t == nil || err == nil {
		return
	}
	t.txn.NoticeError(err)
}

// End ends the segment, and records its duration as a custom metric when the
// context also carries an application.
func (t *MethodTracer) End() {
	if t == nil {
		return
	}

	t.segment.End()
	RecordDuration(t.ctx, t.name, time.Since(t.start))
}
