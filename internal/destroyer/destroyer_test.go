package destroyer

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
	"wipeit/internal/cleaner"
	"wipeit/internal/connectors"
	"wipeit/internal/lib/retry"
	"wipeit/internal/resources"
)

var fastRetry = retry.Policy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}

type fakeHandler struct {
	resourceType resources.ResourceType
	preDeleteErr map[resources.ResourceId]error
	deleteErrs   map[resources.ResourceId][]error
	panics       map[resources.ResourceId]bool
	delay        time.Duration
	onDelete     func(id resources.ResourceId)

	mu       sync.Mutex
	prepared []resources.ResourceId
	deleted  []resources.ResourceId
	attempts map[resources.ResourceId]int
}

func newFakeHandler(resourceType resources.ResourceType) *fakeHandler {
	return &fakeHandler{
		resourceType: resourceType,
		preDeleteErr: map[resources.ResourceId]error{},
		deleteErrs:   map[resources.ResourceId][]error{},
		panics:       map[resources.ResourceId]bool{},
		attempts:     map[resources.ResourceId]int{},
	}
}

func (f *fakeHandler) Type() resources.ResourceType {
	return f.resourceType
}

func (f *fakeHandler) PreDelete(_ context.Context, _ *connectors.SAwsSession, id resources.ResourceId) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepared = append(f.prepared, id)
	return f.preDeleteErr[id]
}

func (f *fakeHandler) Delete(_ context.Context, _ *connectors.SAwsSession, id resources.ResourceId) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panics[id] {
		panic("unexpected nil output")
	}
	if f.onDelete != nil {
		f.onDelete(id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	attempt := f.attempts[id]
	f.attempts[id]++
	if errs := f.deleteErrs[id]; attempt < len(errs) && errs[attempt] != nil {
		return errs[attempt]
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func selectionOf(pairs ...string) resources.SelectionSet {
	selection := resources.NewSelectionSet()
	for i := 0; i+1 < len(pairs); i += 2 {
		selection.AddStrings(resources.ResourceType(pairs[i]), pairs[i+1])
	}
	return selection
}

func newDestroyer(handlers []cleaner.Handler, opts ...Option) *Destroyer {
	opts = append([]Option{WithRetry(fastRetry)}, opts...)
	return New(&connectors.SAwsSession{}, cleaner.NewRegistry(handlers...), opts...)
}

func TestRun_OneOutcomePerPairInSelectionOrder(t *testing.T) {
	sqsHandler := newFakeHandler(resources.TypeSqs)
	ec2Handler := newFakeHandler(resources.TypeEc2)
	ec2Handler.deleteErrs["i-bad"] = []error{awserr.New("InvalidInstanceID.NotFound", "no such instance", nil)}

	outcomes := newDestroyer([]cleaner.Handler{sqsHandler, ec2Handler}).Run(context.Background(), selectionOf("sqs", "q1", "ec2", "i-bad"))

	require.Len(t, outcomes, 2)
	assert.Equal(t, resources.Outcome{Resource: "q1", Type: resources.TypeSqs, Status: resources.StatusDeleted}, outcomes[0])
	assert.Equal(t, "i-bad", outcomes[1].Resource)
	assert.Equal(t, resources.TypeEc2, outcomes[1].Type)
	assert.Equal(t, resources.StatusFailed, outcomes[1].Status)
	assert.Equal(t, resources.KindDeleteCallFailure, outcomes[1].Kind)
	assert.Contains(t, outcomes[1].Error, "no such instance")
}

func TestRun_FailureIsIsolated(t *testing.T) {
	handler := newFakeHandler(resources.TypeLambda)
	handler.deleteErrs["f2"] = []error{fmt.Errorf("access denied")}
	selection := resources.NewSelectionSet()
	selection.AddStrings(resources.TypeLambda, "f1", "f2", "f3", "f2")

	outcomes := newDestroyer([]cleaner.Handler{handler}).Run(context.Background(), selection)

	require.Len(t, outcomes, selection.Len())
	statuses := []resources.Status{}
	for _, outcome := range outcomes {
		statuses = append(statuses, outcome.Status)
	}
	assert.Equal(t, []resources.Status{resources.StatusDeleted, resources.StatusFailed, resources.StatusDeleted, resources.StatusDeleted}, statuses)
	assert.Equal(t, []resources.ResourceId{"f1", "f3", "f2"}, handler.deleted)
}

func TestRun_UnknownType(t *testing.T) {
	selection := resources.NewSelectionSet()
	selection.AddStrings("elasticache", "c1", "c2")

	outcomes := newDestroyer(nil).Run(context.Background(), selection)

	require.Len(t, outcomes, 2)
	for _, outcome := range outcomes {
		assert.Equal(t, resources.StatusFailed, outcome.Status)
		assert.Equal(t, resources.KindUnknownType, outcome.Kind)
		assert.Contains(t, outcome.Error, "elasticache")
	}
}

func TestRun_PreconditionFailureSkipsDelete(t *testing.T) {
	handler := newFakeHandler(resources.TypeEbs)
	handler.preDeleteErr["vol-1"] = fmt.Errorf("timed out waiting for volume")

	outcomes := newDestroyer([]cleaner.Handler{handler}).Run(context.Background(), selectionOf("ebs", "vol-1"))

	require.Len(t, outcomes, 1)
	assert.Equal(t, resources.KindPreconditionFailure, outcomes[0].Kind)
	assert.Empty(t, handler.deleted)
	assert.Zero(t, handler.attempts["vol-1"])
}

func TestRun_TransientDeleteErrorsAreRetried(t *testing.T) {
	handler := newFakeHandler(resources.TypeS3)
	throttled := awserr.New("ThrottlingException", "rate exceeded", nil)
	handler.deleteErrs["ok"] = []error{throttled, throttled}
	handler.deleteErrs["busy"] = []error{throttled, throttled, throttled}

	selection := resources.NewSelectionSet()
	selection.AddStrings(resources.TypeS3, "ok", "busy")
	outcomes := newDestroyer([]cleaner.Handler{handler}).Run(context.Background(), selection)

	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Succeeded())
	assert.Equal(t, 3, handler.attempts["ok"])
	assert.Equal(t, resources.KindTransientAPIError, outcomes[1].Kind)
	assert.Equal(t, fastRetry.Attempts, handler.attempts["busy"])
}

func TestRun_PanicBecomesFailedOutcome(t *testing.T) {
	handler := newFakeHandler(resources.TypeApiGateway)
	handler.panics["api-1"] = true
	selection := resources.NewSelectionSet()
	selection.AddStrings(resources.TypeApiGateway, "api-1", "api-2")

	outcomes := newDestroyer([]cleaner.Handler{handler}).Run(context.Background(), selection)

	require.Len(t, outcomes, 2)
	assert.Equal(t, resources.StatusFailed, outcomes[0].Status)
	assert.Contains(t, outcomes[0].Error, "panic")
	assert.True(t, outcomes[1].Succeeded())
}

func TestRun_EmptySelection(t *testing.T) {
	outcomes := newDestroyer(nil).Run(context.Background(), resources.NewSelectionSet())
	assert.NotNil(t, outcomes)
	assert.Empty(t, outcomes)
}

func TestRun_WorkersKeepSelectionOrder(t *testing.T) {
	slow := newFakeHandler(resources.TypeRds)
	slow.delay = 20 * time.Millisecond
	fast := newFakeHandler(resources.TypeDynamoDb)
	logs := newFakeHandler(resources.TypeCloudWatchLogs)

	selection := resources.NewSelectionSet()
	selection.AddStrings(resources.TypeRds, "db1", "db2")
	selection.AddStrings(resources.TypeDynamoDb, "t1")
	selection.AddStrings(resources.TypeCloudWatchLogs, "/aws/lambda/a", "/aws/lambda/b")

	d := newDestroyer([]cleaner.Handler{slow, fast, logs}, WithWorkers(3))
	outcomes := d.Run(context.Background(), selection)

	var got []string
	for _, outcome := range outcomes {
		require.True(t, outcome.Succeeded())
		got = append(got, outcome.Resource)
	}
	assert.Equal(t, []string{"db1", "db2", "t1", "/aws/lambda/a", "/aws/lambda/b"}, got)
}

func TestRun_CancellationKeepsCompletedOutcomes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := newFakeHandler(resources.TypeSecretsManager)
	handler.onDelete = func(id resources.ResourceId) {
		if id == "s1" {
			cancel()
		}
	}
	selection := resources.NewSelectionSet()
	selection.AddStrings(resources.TypeSecretsManager, "s1", "s2", "s3")
	selection.AddStrings(resources.TypeLambda, "f1")

	outcomes := newDestroyer([]cleaner.Handler{handler, newFakeHandler(resources.TypeLambda)}).Run(ctx, selection)

	require.Len(t, outcomes, 4)
	assert.True(t, outcomes[0].Succeeded())
	for _, outcome := range outcomes[1:] {
		assert.Equal(t, resources.StatusFailed, outcome.Status)
		assert.Equal(t, resources.KindCancelled, outcome.Kind)
	}
	assert.Equal(t, []resources.ResourceId{"s1"}, handler.deleted)
}

func TestNew_Defaults(t *testing.T) {
	d := New(&connectors.SAwsSession{}, cleaner.NewRegistry(), WithWorkers(-2))
	assert.Equal(t, 1, d.Workers)
	assert.Equal(t, retry.DefaultPolicy(), d.Retry)
}
