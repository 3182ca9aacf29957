package analyzer

import (
	"context"
	"errors"
	"sync"

	"github.com/chenBenjamin97/posture-analyzer/pkg/posture"
)

//ErrPoolClosed is returned by Acquire after Close
var ErrPoolClosed = errors.New("estimator pool closed")

//Estimator is a pose estimator that holds resources which must be released
type Estimator[F any] interface {
	posture.Estimator[F]
	Close() error
}

//Pool hands out estimators to one owner at a time. Instances are built lazily
//by the factory, at most size of them, and reused after Release.
type Pool[F any] struct {
	factory func() (Estimator[F], error)
	slots   chan struct{}
	idle    chan Estimator[F]

	mu     sync.Mutex
	closed bool
}

//NewPool returns a Pool holding at most size estimators
func NewPool[F any](size int, factory func() (Estimator[F], error)) *Pool[F] {
	if size < 1 {
		size = 1
	}

	return &Pool[F]{
		factory: factory,
		slots:   make(chan struct{}, size),
		idle:    make(chan Estimator[F], size),
	}
}

//Acquire checks out an estimator, waiting for one to be released if all are in use
func (p *Pool[F]) Acquire(ctx context.Context) (Estimator[F], error) {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		<-p.slots
		return nil, ErrPoolClosed
	}

	select {
	case e := <-p.idle:
		return e, nil
	default:
	}

	e, err := p.factory()
	if err != nil {
		<-p.slots
		return nil, err
	}

	return e, nil
}

//Release returns an estimator obtained from Acquire
func (p *Pool[F]) Release(e Estimator[F]) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		e.Close()
	} else {
		//never blocks: idle holds as many estimators as there are slots
		p.idle <- e
		p.mu.Unlock()
	}
	<-p.slots
}

//Close releases every idle estimator. Estimators still checked out are closed on Release.
func (p *Pool[F]) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	var errs []error
	for {
		select {
		case e := <-p.idle:
			if err := e.Close(); err != nil {
				errs = append(errs, err)
			}
		default:
			return errors.Join(errs...)
		}
	}
}
