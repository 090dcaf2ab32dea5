package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harbourops/importer/internal/backend"
)

// Backend is the write surface of the remote service used by submit hooks.
// *backend.Client satisfies it; tests substitute fakes.
type Backend interface {
	CreateAddressBook(ctx context.Context, req backend.CompanyCreate) (backend.Created, error)
	CreatePort(ctx context.Context, req backend.PortCreate) (backend.Created, error)
	CreateInventory(ctx context.Context, req backend.InventoryCreate) (backend.Created, error)
	CreateLeasingInfo(ctx context.Context, rec backend.LeasingInfo) (backend.Created, error)
}

// Client bundles the read and write halves of the remote service.
type Client interface {
	ReferenceSource
	Backend
}

// Pipeline is the per-run context handed to submit hooks: the write surface,
// the reference snapshot, the configured fallback ids, and the run clock.
// Built once per run; read-only inside the row loop.
type Pipeline struct {
	Backend  Backend
	Refs     *ReferenceIndex
	Defaults Defaults
	Now      func() time.Time
}

// Runner executes import runs against a remote service.
type Runner struct {
	Client   Client
	Defaults Defaults
	Log      *slog.Logger

	// Now is the run clock, overridable in tests. Nil means time.Now.
	Now func() time.Time
}

// Run executes one import: parse the file, snapshot the reference
// collections, then walk the rows sequentially in file order. A row's
// failure is recorded and the loop continues; rows are never submitted in
// parallel and never retried. Only parse failures, missing headers, an empty
// file, or a reference fetch failure abort the run as a whole, in which case
// the returned error carries the reason and the outcome is empty.
func (r *Runner) Run(ctx context.Context, category Category, fileName string, data []byte) (Outcome, error) {
	def, ok := Lookup(category)
	if !ok {
		return Outcome{}, fmt.Errorf("unknown import category: %s", category)
	}

	out := Outcome{Category: category}

	rows, err := ParseRows(def, fileName, data)
	if err != nil {
		return out, err
	}

	refs, err := BuildIndex(ctx, r.Client, def)
	if err != nil {
		return out, err
	}

	now := r.Now
	if now == nil {
		now = time.Now
	}
	log := r.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("category", category, "file", fileName)

	p := &Pipeline{Backend: r.Client, Refs: refs, Defaults: r.Defaults, Now: now}

	for _, row := range rows {
		if def.Skip != nil {
			if reason, skip := def.Skip(row); skip {
				out.Skipped++
				out.Errors = append(out.Errors, rowMessage(def, row, reason))
				log.Debug("row skipped", "row", row.Number, "reason", reason)
				continue
			}
		}

		if err := def.Validate(row); err != nil {
			out.Failed++
			out.Errors = append(out.Errors, rowMessage(def, row, err.Error()))
			log.Warn("row rejected", "row", row.Number, "error", err)
			continue
		}

		warnings, err := def.Submit(ctx, p, row)
		for _, w := range warnings {
			out.Errors = append(out.Errors, rowMessage(def, row, w))
		}
		if err != nil {
			out.Failed++
			out.Errors = append(out.Errors, rowMessage(def, row, err.Error()))
			log.Warn("row failed", "row", row.Number, "error", err)
			continue
		}
		out.Success++
	}

	log.Info("import finished",
		"success", out.Success,
		"failed", out.Failed,
		"skipped", out.Skipped,
		"status", out.Status())
	return out, nil
}

// rowMessage prefixes a message with the row's file position and, when the
// category defines one, the row's identifying value.
func rowMessage(def CategoryDefinition, row Row, msg string) string {
	if def.Describe != nil {
		if label := def.Describe(row); label != "" {
			return fmt.Sprintf("Row %d (%s): %s", row.Number, label, msg)
		}
	}
	return fmt.Sprintf("Row %d: %s", row.Number, msg)
}
