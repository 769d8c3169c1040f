package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kombefarm/flockdash/internal/grid"
	"github.com/kombefarm/flockdash/internal/poultry"
	"github.com/kombefarm/flockdash/internal/session"
	"github.com/kombefarm/flockdash/internal/state"
)

// Client is the backend the controller drives. *poultry.Client implements it.
type Client interface {
	ListFlocks(ctx context.Context, creds poultry.Credentials) ([]poultry.FlockRecord, error)
	CreateFlock(ctx context.Context, creds poultry.Credentials, record poultry.FlockRecord) (*poultry.FlockRecord, error)
	UpdateFlock(ctx context.Context, creds poultry.Credentials, id int64, record poultry.FlockRecord) error
	DeleteFlock(ctx context.Context, creds poultry.Credentials, id int64) error
}

// Confirmer asks the operator a yes/no question. Confirm blocks until the
// operator answers or ctx is done; a cancelled prompt counts as "no".
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Router switches the visible screen to path.
type Router interface {
	NavigateTo(path string)
}

// Exporter writes the grid's current rows.
type Exporter interface {
	Export(w io.Writer, format grid.Format) error
}

var _ Client = (*poultry.Client)(nil)

type action int

const (
	actionSubmit action = iota
	actionDelete
)

func (a action) String() string {
	if a == actionDelete {
		return "delete"
	}
	return "submit"
}

// Controller owns the flock rows and the edit form, and mediates every
// backend call. It is safe for concurrent use.
type Controller struct {
	client Client
	user   session.User
	store  *state.Store
	logger *zap.Logger

	router   Router
	exporter Exporter
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRouter attaches the router used by Navigate.
func WithRouter(r Router) Option {
	return func(c *Controller) { c.router = r }
}

// WithExporter attaches the grid used by Export.
func WithExporter(e Exporter) Option {
	return func(c *Controller) { c.exporter = e }
}

// New builds a controller for user. A nil store gets a fresh one.
func New(client Client, user session.User, store *state.Store, opts ...Option) *Controller {
	if store == nil {
		store = state.NewStore()
	}
	c := &Controller{
		client: client,
		user:   user,
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// User returns the identity passed at construction.
func (c *Controller) User() session.User {
	return c.user
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() state.Snapshot {
	return c.store.Snapshot()
}

// Load performs the initial fetch. Loading is set only for its duration.
func (c *Controller) Load(ctx context.Context) error {
	var halted bool
	c.store.Update(func(s *state.Snapshot) {
		halted = s.Halted()
		if !halted {
			s.Loading = true
		}
	})
	if halted {
		return ErrHalted
	}
	return c.fetch(ctx)
}

func (c *Controller) fetch(ctx context.Context) error {
	rows, err := c.client.ListFlocks(ctx, c.user)
	if err != nil {
		msg := LoadErrorMessage(err)
		c.logger.Error("list flocks failed", zap.Error(err))
		c.store.Update(func(s *state.Snapshot) {
			s.LastError = msg
			s.Loading = false
		})
		return fmt.Errorf("list flocks: %w", err)
	}
	c.store.ReplaceRows(rows)
	c.store.Update(func(s *state.Snapshot) { s.Loading = false })
	c.logger.Debug("flocks loaded", zap.Int("rows", len(rows)))
	return nil
}

// OpenCreate opens the dialog on the empty template.
func (c *Controller) OpenCreate() error {
	return c.mutate(func(s *state.Snapshot) {
		s.Form = state.EmptyForm()
		s.FormError = ""
		s.DialogOpen = true
	})
}

// OpenUpdate opens the dialog on a copy of rec.
func (c *Controller) OpenUpdate(rec poultry.FlockRecord) error {
	return c.mutate(func(s *state.Snapshot) {
		s.Form = state.FormFromRecord(rec)
		s.FormError = ""
		s.DialogOpen = true
	})
}

// Close hides the dialog and resets the form.
func (c *Controller) Close() error {
	return c.mutate(closeDialog)
}

// SetField replaces one form value.
func (c *Controller) SetField(field, value string) error {
	return c.mutate(func(s *state.Snapshot) {
		next := s.Form.With(field, value)
		if next.Equal(s.Form) {
			return
		}
		s.Form = next
		s.FormError = ""
	})
}

// Submit sends the form. A form with an ID is an update and asks confirmer
// first; a form without one is a create and does not. On success the dialog
// closes and the rows are fetched again.
func (c *Controller) Submit(ctx context.Context, confirmer Confirmer) error {
	if err := c.acquire(actionSubmit); err != nil {
		return err
	}
	defer c.release(actionSubmit)

	form := c.store.Snapshot().Form
	record, err := form.Record()
	if err != nil {
		c.store.Update(func(s *state.Snapshot) { s.FormError = err.Error() })
		return err
	}

	if form.HasID() {
		if !confirm(ctx, confirmer, UpdatePrompt) {
			c.logger.Debug("update declined", zap.Int64("flock_id", form.ID))
			return nil
		}
		err = c.client.UpdateFlock(ctx, c.user, form.ID, record)
	} else {
		_, err = c.client.CreateFlock(ctx, c.user, record)
	}
	if err != nil {
		return c.fail(actionSubmit, err)
	}

	c.logger.Info("flock saved", zap.Int64("flock_id", form.ID), zap.Bool("update", form.HasID()))
	c.store.Update(closeDialog)
	return c.fetch(ctx)
}

// Delete removes the flock id after confirmer agrees, then fetches the rows
// again.
func (c *Controller) Delete(ctx context.Context, id int64, confirmer Confirmer) error {
	if err := c.acquire(actionDelete); err != nil {
		return err
	}
	defer c.release(actionDelete)

	if !confirm(ctx, confirmer, DeletePrompt) {
		c.logger.Debug("delete declined", zap.Int64("flock_id", id))
		return nil
	}
	if err := c.client.DeleteFlock(ctx, c.user, id); err != nil {
		return c.fail(actionDelete, err)
	}
	c.logger.Info("flock deleted", zap.Int64("flock_id", id))
	return c.fetch(ctx)
}

// Navigate hands rec's detail route to the router.
func (c *Controller) Navigate(rec poultry.FlockRecord) error {
	if c.store.Snapshot().Halted() {
		return ErrHalted
	}
	if c.router == nil {
		return ErrNoRouter
	}
	c.router.NavigateTo(DetailPath(rec))
	return nil
}

// Export writes the grid's rows in format.
func (c *Controller) Export(w io.Writer, format grid.Format) error {
	if c.store.Snapshot().Halted() {
		return ErrHalted
	}
	if c.exporter == nil {
		return ErrNoExporter
	}
	return c.exporter.Export(w, format)
}

// ExportFile writes the grid's rows to path, creating its directory.
func (c *Controller) ExportFile(path string, format grid.Format) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
	}()
	if err := c.Export(f, format); err != nil {
		return err
	}
	c.logger.Info("flocks exported", zap.String("path", path), zap.String("format", string(format)))
	return nil
}

// mutate applies fn unless the dashboard is halted.
func (c *Controller) mutate(fn func(*state.Snapshot)) error {
	var halted bool
	c.store.Update(func(s *state.Snapshot) {
		if s.Halted() {
			halted = true
			return
		}
		fn(s)
	})
	if halted {
		return ErrHalted
	}
	return nil
}

// acquire claims the in-flight flag for a. The check and the set happen under
// one lock, so two racing callers cannot both pass.
func (c *Controller) acquire(a action) error {
	var err error
	c.store.Update(func(s *state.Snapshot) {
		if s.Halted() {
			err = ErrHalted
			return
		}
		flag := inFlightFlag(s, a)
		if *flag {
			err = ErrInFlight
			return
		}
		*flag = true
	})
	if errors.Is(err, ErrInFlight) {
		c.logger.Debug("action already in flight", zap.Stringer("action", a))
	}
	return err
}

func (c *Controller) release(a action) {
	c.store.Update(func(s *state.Snapshot) { *inFlightFlag(s, a) = false })
}

func (c *Controller) fail(a action, err error) error {
	msg := MutationErrorMessage(err)
	c.logger.Error("flock mutation failed", zap.Stringer("action", a), zap.Error(err))
	c.store.Update(func(s *state.Snapshot) {
		s.LastError = msg
		s.Loading = false
	})
	return fmt.Errorf("%s flock: %w", a, err)
}

func inFlightFlag(s *state.Snapshot, a action) *bool {
	if a == actionDelete {
		return &s.Deleting
	}
	return &s.Submitting
}

func closeDialog(s *state.Snapshot) {
	s.DialogOpen = false
	s.Form = state.EmptyForm()
	s.FormError = ""
}

func confirm(ctx context.Context, confirmer Confirmer, prompt string) bool {
	if confirmer == nil {
		return false
	}
	if ctx.Err() != nil {
		return false
	}
	return confirmer.Confirm(ctx, prompt)
}
