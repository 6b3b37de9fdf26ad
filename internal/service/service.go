// Package service implements the book-generation pipeline: the run state
// machine, the per-stage runner, and the wiring between cache, retry
// executor, event bus, backends, and the store.
package service

import (
	"errors"

	"github.com/inkwell/orchestrator/internal/adapter/llm"
	"github.com/inkwell/orchestrator/internal/cache"
	"github.com/inkwell/orchestrator/internal/config"
	"github.com/inkwell/orchestrator/internal/eventbus"
	store "github.com/inkwell/orchestrator/internal/repository"
	"github.com/inkwell/orchestrator/internal/retry"
)

// ErrBookNotFound is returned when the referenced book does not exist.
var ErrBookNotFound = errors.New("book not found")

// ErrAlreadyGenerating is returned when a generation run is already in
// flight for the book.
var ErrAlreadyGenerating = errors.New("generation already in progress")

type Service struct {
	store    store.Store
	bus      *eventbus.Bus
	cache    *cache.ResultCache
	backend  llm.Backend
	executor *retry.Executor
	config   *config.Config
}

func New(st store.Store, bus *eventbus.Bus, resultCache *cache.ResultCache, backend llm.Backend, executor *retry.Executor, cfg *config.Config) *Service {
	return &Service{
		store:    st,
		bus:      bus,
		cache:    resultCache,
		backend:  backend,
		executor: executor,
		config:   cfg,
	}
}

// Bus exposes the event bus for transports that stream run snapshots.
func (s *Service) Bus() *eventbus.Bus {
	return s.bus
}
