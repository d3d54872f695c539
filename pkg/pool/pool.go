// Package pool реализует ограниченный пул воркеров: фиксированное число горутин
// читает элементы из входного канала и отдает помеченные результаты по мере готовности.
// Это механизм backpressure конвейеров: в обработке каждой стадии находится
// не более workers элементов одновременно.
package pool

import (
	"context"
	"sync"
)

// Result — помеченный результат обработки одного элемента.
// Err != nil означает отказ по данному элементу; соседние элементы не затрагиваются.
type Result[T any] struct {
	Value T
	Err   error
}

// Map запускает workers горутин над элементами канала in.
// Результаты пишутся в выходной канал в порядке завершения, а не в порядке подачи.
// Выходной канал закрывается после обработки всех элементов входного.
// При отмене контекста воркеры останавливаются, не дочитывая вход.
func Map[In, Out any](ctx context.Context, in <-chan In, workers int, fn func(context.Context, In) (Out, error)) <-chan Result[Out] {
	if workers < 1 {
		workers = 1
	}

	out := make(chan Result[Out])

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case item, ok := <-in:
					if !ok {
						return
					}

					value, err := fn(ctx, item)
					select {
					case out <- Result[Out]{Value: value, Err: err}:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// Feed превращает срез в канал элементов, пригодный для Map.
// Канал закрывается после подачи всех элементов или при отмене контекста.
func Feed[T any](ctx context.Context, items []T) <-chan T {
	ch := make(chan T)

	go func() {
		defer close(ch)
		for _, item := range items {
			select {
			case ch <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}
