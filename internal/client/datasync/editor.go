package datasync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlibekovAA/profile-editor/internal/client/api"
	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/common/resilience"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
	"github.com/AlibekovAA/profile-editor/internal/profile/validation"
)

type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateLoadError State = "load_error"
	StateSaving    State = "saving"
)

const (
	defaultSaveSuccessMessage = "Profile updated successfully!"
	defaultSaveFailureMessage = "Failed to update profile"
)

var (
	ErrInvalidForm    = errors.New("form has validation errors")
	ErrSaveInProgress = errors.New("a save is already in progress")
	ErrNotLoaded      = errors.New("profile is not loaded")
	ErrUnknownField   = errors.New("unknown profile field")
)

type ProfileAPI interface {
	GetProfile(ctx context.Context) (domain.Profile, error)
	UpdateProfile(ctx context.Context, u domain.Update) (api.UpdateResult, error)
}

type Notifier interface {
	Success(message string)
	Error(message string)
}

type EventSource interface {
	Watch(ctx context.Context, onUpdate func(domain.Profile)) error
}

type Options struct {
	API      ProfileAPI
	Schema   *validation.Schema
	Notifier Notifier
	Clock    clock.Clock
	// Retries is how many extra attempts the initial load gets; <= 0 selects
	// the default. NoRetry disables retrying altogether.
	Retries    int
	RetryDelay time.Duration
	NoRetry    bool
	// OnChange is called with every fetched record that differs from the
	// cached one.
	OnChange func(domain.Profile)
	Log      *logger.Logger
}

// Editor drives one edit session: load, local edits, optimistic save with
// rollback, and background revalidation.
type Editor struct {
	api      ProfileAPI
	schema   *validation.Schema
	notifier Notifier
	clock    clock.Clock
	policy   resilience.RetryPolicy
	onChange func(domain.Profile)
	log      *logger.Logger
	cache    *Cache

	mu      sync.Mutex
	state   State
	loadErr error
	form    form

	background sync.WaitGroup
}

func NewEditor(opts Options) *Editor {
	schema := opts.Schema
	if schema == nil {
		schema = validation.NewSchema()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}
	log := opts.Log
	if log == nil {
		log, _ = logger.New("", "profilectl", "error")
	}
	retries := opts.Retries
	if retries <= 0 {
		retries = constants.DefaultFetchRetries
	}
	if opts.NoRetry {
		retries = 0
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = constants.DefaultFetchRetryDelay
	}

	e := &Editor{
		api:      opts.API,
		schema:   schema,
		notifier: opts.Notifier,
		clock:    clk,
		onChange: opts.OnChange,
		log:      log,
		cache:    NewCache(),
		state:    StateIdle,
	}

	e.policy = resilience.FixedPolicy(retries+1, delay)
	e.policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		e.log.Warnf("profile fetch attempt %d failed, retrying in %v: %v", attempt, delay, err)
	}
	return e
}

// Mount performs the initial load, retrying with a fixed delay before giving
// up with StateLoadError.
func (e *Editor) Mount(ctx context.Context) error {
	return e.load(ctx, e.policy)
}

// Retry is the manual retry after a failed load.
func (e *Editor) Retry(ctx context.Context) error {
	return e.load(ctx, e.policy)
}

// Refresh drops the cached copy and reads the profile again without retries.
func (e *Editor) Refresh(ctx context.Context) error {
	e.cache.Invalidate()
	return e.load(ctx, resilience.FixedPolicy(1, 0))
}

func (e *Editor) load(ctx context.Context, policy resilience.RetryPolicy) error {
	e.mu.Lock()
	if e.state != StateSaving && e.state != StateReady {
		e.state = StateLoading
	}
	e.mu.Unlock()

	var fetched domain.Profile
	err := resilience.Retry(ctx, policy, func(ctx context.Context) error {
		p, err := e.api.GetProfile(ctx)
		if err != nil {
			return err
		}
		fetched = p
		return nil
	})
	if err != nil {
		err = unwrapExhausted(err)
		e.mu.Lock()
		e.loadErr = err
		if _, loaded := e.cache.Get(); !loaded && e.state != StateSaving {
			e.state = StateLoadError
		}
		e.mu.Unlock()

		e.log.WithFields(ctx, logger.Fields{
			"action": "profile_load_failed",
		}).Warnf("profile load failed: %v", err)
		return err
	}

	e.applyFetched(fetched)
	return nil
}

// applyFetched stores a read result. The form follows the record only when
// the record actually changed, so an identical refetch keeps unsaved edits.
func (e *Editor) applyFetched(p domain.Profile) {
	prev := e.cache.Snapshot()
	e.cache.Set(p)
	changed := prev.Version == 0 || !sameProfile(prev.Profile, p)

	e.mu.Lock()
	e.loadErr = nil
	if e.state != StateSaving {
		if e.state != StateReady || changed {
			e.form.reset(p)
		}
		e.state = StateReady
	}
	e.mu.Unlock()

	if changed && e.onChange != nil {
		e.onChange(p)
	}
}

// Submit validates the form and saves it. The cache shows the merged values
// until the server answers; a failure restores the previous copy unless a
// newer response already replaced it.
func (e *Editor) Submit(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateSaving:
		e.mu.Unlock()
		return ErrSaveInProgress
	case StateReady:
	default:
		e.mu.Unlock()
		return ErrNotLoaded
	}

	if errs := e.schema.Validate(e.form.values); errs != nil {
		e.form.errors = errs
		e.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrInvalidForm, errs)
	}
	e.form.errors = nil
	update := e.form.values.ToUpdate()
	e.state = StateSaving
	e.mu.Unlock()

	snap := e.cache.Snapshot()
	provisional := domain.NextTimestamp(snap.Profile.UpdatedAt, e.clock.Now())
	optimisticVersion := e.cache.Set(snap.Profile.Merge(update, provisional))

	res, err := e.api.UpdateProfile(ctx, update)
	if err != nil {
		restored := e.cache.RestoreIf(optimisticVersion, snap)

		e.mu.Lock()
		e.state = StateReady
		if apiErr, ok := api.AsAPIError(err); ok {
			for field, msg := range apiErr.Fields {
				e.form.setError(field, msg)
			}
		}
		e.mu.Unlock()

		e.log.WithFields(ctx, logger.Fields{
			"action":   "profile_save_failed",
			"restored": restored,
		}).Warnf("profile save failed: %v", err)
		e.notifyError(failureMessage(err))
		e.revalidateAsync(ctx)
		return err
	}

	e.cache.Set(res.Profile)

	e.mu.Lock()
	e.form.reset(res.Profile)
	e.state = StateReady
	e.mu.Unlock()

	msg := res.Message
	if msg == "" {
		msg = defaultSaveSuccessMessage
	}
	e.log.WithFields(ctx, logger.Fields{
		"action":     "profile_saved",
		"updated_at": clock.FormatTimestamp(res.Profile.UpdatedAt),
	}).Info("profile saved")
	e.notifySuccess(msg)
	e.revalidateAsync(ctx)
	return nil
}

// Revalidate reads the profile once and applies it. Failures are logged and
// leave the cache untouched.
func (e *Editor) Revalidate(ctx context.Context) {
	p, err := e.api.GetProfile(ctx)
	if err != nil {
		e.log.WithFields(ctx, logger.Fields{
			"action": "profile_revalidate_failed",
		}).Debugf("revalidation failed: %v", err)
		return
	}
	e.applyFetched(p)
}

func (e *Editor) revalidateAsync(ctx context.Context) {
	bg := context.WithoutCancel(ctx)
	e.background.Add(1)
	go func() {
		defer e.background.Done()
		e.Revalidate(bg)
	}()
}

// Wait blocks until background revalidations finish.
func (e *Editor) Wait() {
	e.background.Wait()
}

// Watch revalidates on every change event from src until src returns.
func (e *Editor) Watch(ctx context.Context, src EventSource) error {
	return src.Watch(ctx, func(domain.Profile) {
		e.Revalidate(ctx)
	})
}

// SetField edits one form value and re-checks that field.
func (e *Editor) SetField(field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.form.values.Set(field, value) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if msg, ok := e.schema.ValidateField(field, value); !ok {
		e.form.setError(field, msg)
	} else {
		e.form.clearError(field)
	}
	return nil
}

// Discard drops unsaved edits.
func (e *Editor) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.form.discard()
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Editor) LoadError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadErr
}

func (e *Editor) Profile() (domain.Profile, bool) {
	return e.cache.Get()
}

func (e *Editor) Cache() *Cache {
	return e.cache
}

func (e *Editor) Values() validation.Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.values
}

func (e *Editor) FieldErrors() validation.Errors {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.errorsCopy()
}

func (e *Editor) HasUnsavedChanges() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.dirty()
}

// CanSubmit is true when there are edits and no save is pending.
func (e *Editor) CanSubmit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateReady && e.form.dirty()
}

func (e *Editor) notifySuccess(msg string) {
	if e.notifier != nil {
		e.notifier.Success(msg)
	}
}

func (e *Editor) notifyError(msg string) {
	if e.notifier != nil {
		e.notifier.Error(msg)
	}
}

func failureMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return defaultSaveFailureMessage
}

func unwrapExhausted(err error) error {
	var exhausted *resilience.ExhaustedError
	if errors.As(err, &exhausted) {
		return exhausted.Err
	}
	return err
}
