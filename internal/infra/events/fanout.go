package events

import (
	"context"
	"errors"
)

// Fanout отправляет событие всем получателям; ошибки объединяются
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop ничего не публикует
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
