// Package memory is the storage service behind the membox API. It
// fronts the sqlite layer with an async write lane so command
// submissions never block the request path.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/entl/membox/internal/logging"
	"github.com/entl/membox/internal/storage"
)

// Service manages command persistence and retrieval.
// Writes go through a buffered channel and a background worker to avoid
// blocking callers; reads hit the database directly.
type Service struct {
	db       *storage.DB
	writeCh  chan *writeRequest
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopCh   chan struct{}
}

// writeRequest encapsulates a command to be written to storage.
type writeRequest struct {
	cmd      *storage.Command
	resultCh chan error // optional, for callers who want confirmation
}

// NewService creates a new memory service with the given storage backend.
// It starts a background goroutine for async writes.
func NewService(db *storage.DB) *Service {
	svc := &Service{
		db:      db,
		writeCh: make(chan *writeRequest, 100), // buffered to handle bursts
		stopCh:  make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.writeWorker()

	return svc
}

// writeWorker processes write requests in the background.
func (s *Service) writeWorker() {
	defer s.wg.Done()

	for {
		select {
		case req := <-s.writeCh:
			s.handleWrite(req)

		case <-s.stopCh:
			// Drain remaining writes before exiting
			for {
				select {
				case req := <-s.writeCh:
					s.handleWrite(req)
				default:
					return
				}
			}
		}
	}
}

func (s *Service) handleWrite(req *writeRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := s.db.InsertCommand(ctx, req.cmd)
	cancel()

	if err != nil {
		logging.Error().Err(err).Str("command", req.cmd.Command).Msg("failed to insert command")
	}

	if req.resultCh != nil {
		req.resultCh <- err
		close(req.resultCh)
	}
}

// AddCommand asynchronously persists a command. The command text is
// sanitized before storage; blank commands are skipped.
func (s *Service) AddCommand(cmd *storage.Command) {
	cmd.Command = ObfuscateSecrets(cmd.Command)
	if cmd.Command == "" {
		return
	}

	select {
	case s.writeCh <- &writeRequest{cmd: cmd}:
		// queued successfully
	default:
		logging.Warn().Str("command", cmd.Command).Msg("write buffer full, dropping command")
	}
}

// AddCommandSync persists a command and waits for completion, returning
// the assigned command id.
func (s *Service) AddCommandSync(cmd *storage.Command) (string, error) {
	cmd.Command = ObfuscateSecrets(cmd.Command)
	if cmd.Command == "" {
		return "", nil
	}

	resultCh := make(chan error, 1)
	select {
	case s.writeCh <- &writeRequest{cmd: cmd, resultCh: resultCh}:
		if err := <-resultCh; err != nil {
			return "", err
		}
		return cmd.ID, nil
	default:
		return "", nil // drop if buffer full
	}
}

// Search finds commands matching the given options. When a text query
// is present, results are reordered by relevance.
func (s *Service) Search(ctx context.Context, opts storage.QueryOptions) ([]*storage.Command, error) {
	commands, err := s.db.SearchCommands(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.Query != "" {
		rankCommands(commands, opts.Query)
	}
	return commands, nil
}

// GetRecent retrieves the N most recently stored commands.
func (s *Service) GetRecent(ctx context.Context, limit int) ([]*storage.Command, error) {
	return s.db.GetRecentCommands(ctx, limit)
}

// Get retrieves a command by id and marks it as recalled.
// Returns nil when the command does not exist.
func (s *Service) Get(ctx context.Context, id string) (*storage.Command, error) {
	cmd, err := s.db.GetCommand(ctx, id)
	if err != nil || cmd == nil {
		return cmd, err
	}
	if err := s.db.TouchCommand(ctx, id); err != nil {
		logging.Warn().Err(err).Str("id", id).Msg("failed to update recall stats")
	}
	return cmd, nil
}

// Delete removes a command by id. Reports whether it existed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.db.DeleteCommand(ctx, id)
}

// Tags returns the distinct tags across all stored commands.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	return s.db.GetAllTags(ctx)
}

// Categories returns the distinct categories across all stored commands.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.db.GetAllCategories(ctx)
}

// Close gracefully shuts down the service.
// It waits for pending writes to complete.
func (s *Service) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
	})
	return nil
}
