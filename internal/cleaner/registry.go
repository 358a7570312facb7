package cleaner

import (
	"sync"
	"wipeit/internal/resources"
)

type Registry struct {
	mu       sync.RWMutex
	handlers map[resources.ResourceType]Handler
}

func NewRegistry(handlers ...Handler) *Registry {
	r := &Registry{handlers: map[resources.ResourceType]Handler{}}
	for _, h := range handlers {
		r.Register(h)
	}
	return r
}

// Register adds h, replacing any handler already registered for its type.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Type()] = h
}

func (r *Registry) HandlerFor(resourceType resources.ResourceType) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[resourceType]
	return h, ok
}

func (r *Registry) Types() []resources.ResourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]resources.ResourceType, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	resources.SortTypes(types)
	return types
}

// DefaultRegistry registers a handler for every supported resource type.
func DefaultRegistry(opts Options) *Registry {
	opts = opts.withDefaults()
	return NewRegistry(
		&Lambda{},
		&ApiGateway{},
		&Sqs{},
		&Ec2Instance{},
		&CloudWatchLogGroup{},
		&EbsVolume{WaitAttempts: opts.EbsWaitAttempts, WaitDelay: opts.EbsWaitDelay, Retry: opts.Retry},
		&S3Bucket{BatchSize: opts.S3BatchSize},
		&RdsInstance{},
		&Secret{},
		&DynamoDbTable{},
	)
}
