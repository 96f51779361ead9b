package deletion

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthgate/healthgate/internal/domain/permtype"
)

var (
	// ErrUnsupportedRequest marks a value outside the closed request or
	// permission-type variant sets. Raised synchronously, before any store
	// call is issued.
	ErrUnsupportedRequest = errors.New("unsupported deletion request")

	// ErrEmptySelection marks a dispatcher invoked with an empty type set.
	// The orchestrator's partitioning prevents this for well-formed
	// requests; the dispatchers guard independently.
	ErrEmptySelection = errors.New("empty selection")

	// ErrRunInFlight is returned when a new run is started while a
	// previous one has not reached its terminal state. Runs are not
	// cancellable once started; callers gate on this instead.
	ErrRunInFlight = errors.New("a deletion run is already in progress")
)

// Service orchestrates deletion runs: it partitions a request across the
// two domain dispatchers and drives the progress stream through one linear
// lifecycle per run.
type Service struct {
	gateway StoreGateway
	fitness fitnessDeleter
	medical medicalDeleter
	stream  *ProgressStream
	log     zerolog.Logger

	mu       sync.Mutex
	inFlight bool
}

func NewService(gateway StoreGateway, log zerolog.Logger) *Service {
	return &Service{
		gateway: gateway,
		fitness: fitnessDispatcher{gateway: gateway},
		medical: medicalDispatcher{gateway: gateway},
		stream:  NewProgressStream(),
		log:     log.With().Str("component", "deletion").Logger(),
	}
}

// Progress exposes the run lifecycle stream. The latest update stays
// retrievable for late subscribers.
func (s *Service) Progress() *ProgressStream { return s.stream }

// InFlight reports whether a run is currently between start and its
// terminal state.
func (s *Service) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Delete resolves req into store deletes and blocks until the run reaches
// its terminal state. Request-shape errors surface before the state machine
// moves; store failures surface as FAILED progress plus the returned error.
func (s *Service) Delete(ctx context.Context, req Type) error {
	if err := Validate(req); err != nil {
		return err
	}
	if err := s.acquire(); err != nil {
		return err
	}
	return s.run(ctx, uuid.New(), req)
}

// Begin starts a run in the background and returns its run id. The caller
// observes the outcome through the progress stream.
func (s *Service) Begin(req Type) (uuid.UUID, error) {
	if err := Validate(req); err != nil {
		return uuid.Nil, err
	}
	if err := s.acquire(); err != nil {
		return uuid.Nil, err
	}
	runID := uuid.New()
	go func() {
		if err := s.run(context.Background(), runID, req); err != nil {
			s.log.Error().Err(err).Str("run_id", runID.String()).Msg("deletion run failed")
		}
	}()
	return runID, nil
}

func (s *Service) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrRunInFlight
	}
	s.inFlight = true
	return nil
}

func (s *Service) release() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// run drives one linear progress sequence. PROGRESS_INDICATOR_CAN_END is
// emitted in a deferred block so the UI's indicator window always closes,
// even when the dispatch fails or panics.
func (s *Service) run(ctx context.Context, runID uuid.UUID, req Type) error {
	defer s.release()

	s.publish(runID, Started, nil)
	s.publish(runID, ProgressIndicatorCanStart, nil)
	defer s.publish(runID, ProgressIndicatorCanEnd, nil)

	affected, err := s.dispatch(ctx, req)
	if err != nil {
		s.publish(runID, Failed, nil)
		return err
	}
	s.publish(runID, Completed, affected)
	s.log.Info().Str("run_id", runID.String()).Msg("deletion run completed")
	return nil
}

func (s *Service) publish(runID uuid.UUID, p Progress, affected []Domain) {
	s.stream.Publish(Update{RunID: runID, Progress: p, Affected: affected})
}

func (s *Service) dispatch(ctx context.Context, req Type) ([]Domain, error) {
	switch r := req.(type) {
	case PermissionTypes:
		return s.dispatchTypes(ctx, r.Types, r.Total, "")
	case PermissionTypesFromApp:
		return s.dispatchTypes(ctx, r.Types, r.Total, r.PackageName)
	case Entries:
		return s.dispatchEntries(ctx, r.IDs)
	case EntriesFromApp:
		return s.dispatchEntries(ctx, r.IDs)
	case AppData:
		if err := s.gateway.DeleteAppData(ctx, r.PackageName); err != nil {
			return nil, fmt.Errorf("delete app data for %s: %w", r.PackageName, err)
		}
		return []Domain{DomainFitness, DomainMedical}, nil
	case AllData:
		if err := s.gateway.DeleteAllData(ctx); err != nil {
			return nil, fmt.Errorf("delete all data: %w", err)
		}
		return []Domain{DomainFitness, DomainMedical}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRequest, req)
	}
}

// dispatchTypes partitions the selection by variant tag and invokes the
// dispatcher for each non-empty subset. An all-empty selection is a no-op
// success. When both dispatches run, both run to completion regardless of
// the other's outcome; any failure fails the whole run.
func (s *Service) dispatchTypes(ctx context.Context, types []permtype.PermissionType, total int, packageName string) ([]Domain, error) {
	var fitness, medical []permtype.PermissionType
	for _, t := range types {
		switch t.(type) {
		case permtype.FitnessType:
			fitness = append(fitness, t)
		case permtype.MedicalType:
			medical = append(medical, t)
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedRequest, t)
		}
	}
	if len(fitness) == 0 && len(medical) == 0 {
		return nil, nil
	}

	var errs []error
	var affected []Domain

	if len(fitness) > 0 {
		req := PermissionTypes{Types: fitness, Total: total}
		if err := s.fitness.deleteTypes(ctx, req, packageName); err != nil {
			errs = append(errs, fmt.Errorf("fitness dispatch: %w", err))
		} else {
			affected = append(affected, DomainFitness)
		}
	}

	if len(medical) > 0 {
		skip := false
		var sourceIDs []uuid.UUID
		if packageName != "" {
			ids, err := s.gateway.MedicalDataSources(ctx, packageName)
			switch {
			case err != nil:
				errs = append(errs, fmt.Errorf("resolve data sources for %s: %w", packageName, err))
				skip = true
			case len(ids) == 0:
				// App owns no medical sources; nothing to delete.
				skip = true
			default:
				sourceIDs = ids
			}
		}
		if !skip {
			req := PermissionTypes{Types: medical, Total: total}
			if err := s.medical.deleteTypes(ctx, req, sourceIDs); err != nil {
				errs = append(errs, fmt.Errorf("medical dispatch: %w", err))
			} else {
				affected = append(affected, DomainMedical)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return affected, nil
}

// dispatchEntries partitions individually selected entry ids by domain and
// deletes each non-empty batch.
func (s *Service) dispatchEntries(ctx context.Context, ids []EntryID) ([]Domain, error) {
	var fitness, medical []uuid.UUID
	for _, e := range ids {
		switch e.Domain {
		case DomainFitness:
			fitness = append(fitness, e.ID)
		case DomainMedical:
			medical = append(medical, e.ID)
		default:
			return nil, fmt.Errorf("%w: unknown domain %q", ErrUnsupportedRequest, e.Domain)
		}
	}
	if len(fitness) == 0 && len(medical) == 0 {
		return nil, nil
	}

	var errs []error
	var affected []Domain
	if len(fitness) > 0 {
		if err := s.gateway.DeleteFitnessEntries(ctx, fitness); err != nil {
			errs = append(errs, fmt.Errorf("delete fitness entries: %w", err))
		} else {
			affected = append(affected, DomainFitness)
		}
	}
	if len(medical) > 0 {
		if err := s.gateway.DeleteMedicalEntries(ctx, medical); err != nil {
			errs = append(errs, fmt.Errorf("delete medical entries: %w", err))
		} else {
			affected = append(affected, DomainMedical)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return affected, nil
}
