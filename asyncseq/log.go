package asyncseq

import (
	"context"

	apperrors "github.com/kbukum/asyncq/errors"
	"github.com/kbukum/asyncq/logger"
)

// Log passes every element through unchanged while logging the enumeration:
// each element at debug level, completion at info level and faults at error
// level. Cancellation is logged as a warning. Faults still propagate.
func Log[T any](src Enumerable[T], log *logger.Logger, name string) *Sequence[T] {
	requireArg("source", src)
	requireArg("log", log)
	return &Sequence[T]{
		create: func(ctx context.Context) Enumerator[T] {
			return &logIter[T]{
				cursor: cursor[T]{ctx: ctx},
				source: src.Enumerator(ctx),
				log:    log.WithFields(logger.Fields(logger.FieldSequence, name)),
			}
		},
	}
}

type logIter[T any] struct {
	cursor[T]
	source Enumerator[T]
	log    *logger.Logger
	count  int
}

func (it *logIter[T]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		if err != nil {
			it.fault(err)
		}
		return false, err
	}
	ok, err := it.source.MoveNext()
	if err != nil {
		it.fault(err)
		return it.finish(err)
	}
	if !ok {
		it.log.Info("sequence completed", logger.Fields(logger.FieldCount, it.count))
		return it.finish(nil)
	}
	val := it.source.Current()
	if it.log.DebugEnabled() {
		it.log.Debug("sequence element", logger.Fields(logger.FieldIndex, it.count, logger.FieldValue, val))
	}
	it.count++
	return it.yield(val)
}

func (it *logIter[T]) fault(err error) {
	fields := logger.Fields(logger.FieldCount, it.count)
	if apperrors.IsCanceled(err) {
		it.log.WithError(err).Warn("sequence canceled", fields)
		return
	}
	it.log.WithError(err).Error("sequence faulted", fields)
}

func (it *logIter[T]) Dispose() error {
	if !it.release() {
		return nil
	}
	return it.source.Dispose()
}
