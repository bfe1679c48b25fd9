// internal/app/system/pagedata/ops.go
package pagedata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
	"github.com/dalemusser/elaspodem/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ErrBusy is returned by UpdateForms while a load or save is in flight.
var ErrBusy = errors.New("page is loading or saving")

// Load fetches the page document and rebuilds the forms from it. When the
// document does not exist the forms are reset to defaults. On failure the
// previous forms are kept, the phase returns to Loaded and the state carries
// the error.
func (c *Controller[F]) Load(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	c.state.Phase = Loading
	c.state.IsLoading = true
	c.mu.Unlock()

	doc, found, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsLoading = false
	c.state.Phase = Loaded
	if err != nil {
		c.state.Error = fmt.Sprintf("Error loading %s data", c.cfg.PageName)
		c.logger.Error("page load failed", zap.Error(err))
		return err
	}
	c.applyLocked(doc, found)
	return nil
}

func (c *Controller[F]) fetch(ctx context.Context) (fieldmode.Record, bool, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), c.logger, "load "+c.cfg.PageName)
	defer cancel()
	return c.store.GetDocument(ctx, c.cfg.Collection, c.cfg.Document)
}

// applyLocked installs a fetched document. Callers hold c.mu.
func (c *Controller[F]) applyLocked(doc fieldmode.Record, found bool) {
	c.state.Error = ""
	if !found {
		c.logger.Warn("document not found, using defaults",
			zap.String("collection", c.cfg.Collection),
			zap.String("document", c.cfg.Document))
		c.state.Forms = c.cfg.Defaults()
		c.state.Original = nil
		c.state.LastUpdated = ""
		return
	}
	c.state.Forms = c.cfg.SeparateAll(doc)
	c.state.Original = doc.Clone()
	if c.state.Original == nil {
		c.state.Original = fieldmode.Record{}
	}
	c.state.LastUpdated = doc.String(FieldLastUpdated)
	if ts, err := time.Parse(time.RFC3339Nano, c.state.LastUpdated); err == nil && ts.After(c.lastStamp) {
		c.lastStamp = ts.UTC()
	}
}

// Check inspects the forms a save is about to write. A non-nil error stops
// the save before anything reaches the store; the error is returned in
// SaveResult.Err.
type Check[F any] func(forms F) error

// SaveSection writes one section together with the audit fields, then
// reloads the page. Only the section's path and the audit fields are sent to
// the store; other sections are left as stored. checks run against the
// exact forms that are written.
func (c *Controller[F]) SaveSection(ctx context.Context, section string, actor Actor, checks ...Check[F]) SaveResult {
	if !c.HasSection(section) {
		return failed(fmt.Sprintf("Unknown section %q", section),
			fmt.Errorf("%w: %q", ErrUnknownSection, section))
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	forms, stamp := c.beginSave()
	if err := runChecks(forms, checks); err != nil {
		c.abortSave("")
		return failed(fmt.Sprintf("Section %q did not pass validation", section), err)
	}
	path, value, err := c.cfg.CombineSection(forms, section)
	if err != nil {
		c.abortSave(fmt.Sprintf("Error saving %s data", c.cfg.PageName))
		return failed(fmt.Sprintf("Error saving section %q", section), err)
	}
	fields := fieldmode.Record{path: value}

	if err := c.write(ctx, fields, stamp, actor, section); err != nil {
		return failed(fmt.Sprintf("Error saving section %q", section), err)
	}
	c.reload(ctx)
	c.saved(ctx, []string{section})

	return SaveResult{
		Success:       true,
		Message:       fmt.Sprintf("Section %q saved successfully", section),
		SavedSections: []string{section},
	}
}

// SaveAll writes every section and the audit fields in a single update,
// then reloads the page.
func (c *Controller[F]) SaveAll(ctx context.Context, actor Actor, checks ...Check[F]) SaveResult {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	forms, stamp := c.beginSave()
	if err := runChecks(forms, checks); err != nil {
		c.abortSave("")
		return failed("Page did not pass validation", err)
	}
	fields := fieldmode.Record{}
	for _, section := range c.cfg.Sections {
		path, value, err := c.cfg.CombineSection(forms, section)
		if err != nil {
			c.abortSave(fmt.Sprintf("Error saving %s data", c.cfg.PageName))
			return failed("Error saving all sections", err)
		}
		fields[path] = value
	}

	if err := c.write(ctx, fields, stamp, actor, "all"); err != nil {
		return failed("Error saving all sections", err)
	}
	c.reload(ctx)
	sections := c.Sections()
	c.saved(ctx, sections)

	return SaveResult{
		Success:       true,
		Message:       "All sections saved successfully",
		SavedSections: sections,
	}
}

func runChecks[F any](forms F, checks []Check[F]) error {
	for _, check := range checks {
		if check == nil {
			continue
		}
		if err := check(forms); err != nil {
			return err
		}
	}
	return nil
}

// beginSave enters the Saving phase and takes the forms to write in the
// same critical section, so no edit can land between the copy and the
// phase change.
func (c *Controller[F]) beginSave() (F, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Phase = Saving
	c.state.IsSaving = true
	return c.cfg.Clone(c.state.Forms), c.nextStampLocked()
}

// abortSave leaves the Saving phase without having written. A non-empty
// msg is recorded as the state error.
func (c *Controller[F]) abortSave(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Phase = Loaded
	c.state.IsSaving = false
	if msg != "" {
		c.state.Error = msg
	}
}

// write stamps fields with the audit data and sends them to the store. On
// failure the phase goes back to Loaded and the state carries the error.
func (c *Controller[F]) write(ctx context.Context, fields fieldmode.Record, stamp string, actor Actor, what string) error {
	id, name := actor.ID, actor.Name
	if id == "" {
		id = UnknownActor
	}
	if name == "" {
		name = UnknownActor
	}
	fields[FieldLastUpdated] = stamp
	fields[FieldUpdatedByID] = id
	fields[FieldUpdatedByName] = name

	wctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), c.logger, "save "+c.cfg.PageName)
	err := c.store.UpdateFields(wctx, c.cfg.Collection, c.cfg.Document, fields)
	cancel()
	if err != nil {
		c.logger.Error("page save failed", zap.String("section", what), zap.Error(err))
		c.abortSave(fmt.Sprintf("Error saving %s data", c.cfg.PageName))
		return err
	}
	c.logger.Info("page saved",
		zap.String("section", what),
		zap.String("updated_by", id),
		zap.String("last_updated", stamp))
	return nil
}

// reload refreshes the state after a successful write. A failed reload
// leaves the edited forms in place and records the error; the write itself
// has already succeeded.
func (c *Controller[F]) reload(ctx context.Context) {
	doc, found, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Phase = Loaded
	c.state.IsSaving = false
	if err != nil {
		c.state.Error = fmt.Sprintf("Error loading %s data", c.cfg.PageName)
		c.logger.Error("page reload after save failed", zap.Error(err))
		return
	}
	c.applyLocked(doc, found)
}

func (c *Controller[F]) saved(ctx context.Context, sections []string) {
	if c.cfg.OnSaved != nil {
		c.cfg.OnSaved(ctx, append([]string(nil), sections...))
	}
}

// nextStampLocked returns an RFC 3339 UTC timestamp with millisecond
// precision that is strictly later than every stamp issued or loaded so far.
func (c *Controller[F]) nextStampLocked() string {
	now := c.now().UTC().Truncate(time.Millisecond)
	if !now.After(c.lastStamp) {
		now = c.lastStamp.Add(time.Millisecond)
	}
	c.lastStamp = now
	return now.Format(timestampLayout)
}

// ResetSection discards the edits of one section. The section is rebuilt
// from the last loaded document when there is one, otherwise from defaults.
func (c *Controller[F]) ResetSection(section string) error {
	if !c.HasSection(section) {
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	src := c.resetSourceLocked()
	next := c.cfg.Clone(c.state.Forms)
	if err := c.cfg.ResetSection(&next, src, section); err != nil {
		return err
	}
	c.state.Forms = next
	return nil
}

// ResetAll discards every edit, using the same source as ResetSection.
func (c *Controller[F]) ResetAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Forms = c.resetSourceLocked()
}

func (c *Controller[F]) resetSourceLocked() F {
	if c.state.Original != nil {
		return c.cfg.SeparateAll(c.state.Original)
	}
	return c.cfg.Defaults()
}

// UpdateForms applies fn to a copy of the forms and commits the copy when
// fn succeeds. It fails with ErrBusy while a load or save is in progress.
func (c *Controller[F]) UpdateForms(fn func(*F) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase == Loading || c.state.Phase == Saving {
		return ErrBusy
	}
	next := c.cfg.Clone(c.state.Forms)
	if err := fn(&next); err != nil {
		return err
	}
	c.state.Forms = next
	return nil
}

// Snapshot returns a deep copy of the current state.
func (c *Controller[F]) Snapshot() State[F] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	s.Forms = c.cfg.Clone(c.state.Forms)
	s.Original = c.state.Original.Clone()
	return s
}

// Forms returns a deep copy of the current forms.
func (c *Controller[F]) Forms() F {
	return c.formsCopy()
}

func (c *Controller[F]) formsCopy() F {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.Clone(c.state.Forms)
}
