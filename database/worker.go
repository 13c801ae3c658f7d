package database

import (
	"database/sql"
	"fmt"
)

// DBResponse is the outcome of one database operation.
type DBResponse struct {
	Data interface{}
	Err  error
}

// WorkerOperation runs on a pool goroutine.
type WorkerOperation func() DBResponse

type DBOperation struct {
	response  chan DBResponse
	operation WorkerOperation
}

// WorkerPool funnels every store operation through a fixed set of
// goroutines.
type WorkerPool struct {
	operations chan DBOperation
	handler    *DBHandler
}

func (w *WorkerPool) Execute(op WorkerOperation) DBResponse {
	resp := make(chan DBResponse, 1)
	w.operations <- DBOperation{
		response:  resp,
		operation: op,
	}
	return <-resp
}

// Init starts workers goroutines serving db. A panicking operation is
// reported as an error instead of killing its worker.
func Init(db *DBHandler, workers int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	w := &WorkerPool{
		operations: make(chan DBOperation),
		handler:    db,
	}
	for i := 0; i < workers; i++ {
		go func() {
			for operation := range w.operations {
				func() {
					defer func() {
						if r := recover(); r != nil {
							operation.response <- DBResponse{
								Err: fmt.Errorf("panic: %v", r),
							}
						}
					}()
					operation.response <- operation.operation()
				}()
			}
		}()
	}
	return w
}

func (w *WorkerPool) Close() {
	close(w.operations)
}

// write runs fn inside a transaction under the handler's write lock,
// committing only when fn succeeds.
func (w *WorkerPool) write(fn func(tx *sql.Tx) DBResponse) DBResponse {
	return w.Execute(func() DBResponse {
		w.handler.Lock()
		defer w.handler.UnLock()
		return runTx(w.handler.db, fn)
	})
}

// read runs fn inside a transaction under the handler's read lock.
func (w *WorkerPool) read(fn func(tx *sql.Tx) DBResponse) DBResponse {
	return w.Execute(func() DBResponse {
		w.handler.RLock()
		defer w.handler.RUnLock()
		return runTx(w.handler.db, fn)
	})
}

func runTx(db *sql.DB, fn func(tx *sql.Tx) DBResponse) DBResponse {
	tx, err := db.Begin()
	if err != nil {
		return DBResponse{Err: fmt.Errorf("begin transaction: %w", err)}
	}
	// no-op once committed; releases the write lock if fn panics
	defer func() { _ = tx.Rollback() }()

	resp := fn(tx)
	if resp.Err != nil {
		return resp
	}
	if err := tx.Commit(); err != nil {
		return DBResponse{Err: fmt.Errorf("commit: %w", err)}
	}
	return resp
}
