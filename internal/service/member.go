package service

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/labdeskapp/labdesk-server/internal/domain"
	"github.com/labdeskapp/labdesk-server/internal/errors"
	"github.com/labdeskapp/labdesk-server/internal/normalize"
	"github.com/labdeskapp/labdesk-server/internal/roster"
	"github.com/labdeskapp/labdesk-server/internal/store"
)

// MemberService orchestrates member record operations: CRUD against the
// document collection, CSV import, and roster reconciliation.
type MemberService struct {
	store      *store.Store
	logger     *slog.Logger
	rosterPath string

	// The roster is reconciled against the store once per process; later
	// List calls serve straight from the collection.
	synced atomic.Bool
}

// NewMemberService creates a new member service. rosterPath may be empty, in
// which case import and sync degrade to store-only operation.
func NewMemberService(store *store.Store, logger *slog.Logger, rosterPath string) *MemberService {
	return &MemberService{
		store:      store,
		logger:     logger,
		rosterPath: rosterPath,
	}
}

// RosterConfigured reports whether a roster CSV path is wired in.
func (s *MemberService) RosterConfigured() bool {
	return s.rosterPath != ""
}

// List returns every member record. On first use it seeds an empty collection
// from the roster CSV and runs one reconciliation pass; both steps are
// best-effort and never fail the listing.
func (s *MemberService) List(ctx context.Context, extras *domain.Extras) ([]domain.Record, error) {
	if s.rosterPath != "" {
		empty, err := s.store.Members.IsEmpty(ctx)
		if err != nil {
			return nil, err
		}
		if empty {
			if _, err := s.ImportCSV(ctx, extras); err != nil {
				s.logger.Warn("roster seed import failed", "error", err)
			}
		}

		s.reconcileOnce(ctx)
	}

	var records []domain.Record
	for doc, err := range s.store.Members.All(ctx) {
		if err != nil {
			return nil, err
		}
		rec := doc.Fields
		// The document key is the primary identifier; backfill it so
		// callers always see a tax_id field.
		if rec.String(domain.FieldTaxID) == "" {
			rec[domain.FieldTaxID] = doc.ID
		}
		records = append(records, rec)
	}
	return records, nil
}

// reconcileOnce runs the per-process reconciliation pass. The pass counts as
// done only when it succeeds; a failed run stays pending and the next listing
// retries it.
func (s *MemberService) reconcileOnce(ctx context.Context) {
	if !s.synced.CompareAndSwap(false, true) {
		return
	}

	result, err := s.SynchronizeFields(ctx, nil)
	if err != nil {
		s.synced.Store(false)
		s.logger.Warn("roster synchronization failed", "error", err)
		return
	}

	s.logger.Info("roster synchronized",
		"total", result.Total,
		"updated", len(result.Updated),
		"failed", len(result.Failed),
		"csv_used", result.CSVUsed)
}

// Save persists a single member record. The document ID comes from the tax ID
// when present, falling back to the enrollment ID.
func (s *MemberService) Save(ctx context.Context, record domain.Record) (string, error) {
	id := normalize.Basic(record.String(domain.FieldTaxID))
	if id == "" {
		id = normalize.Basic(record.String(domain.FieldEnrollmentID))
	}
	if id == "" {
		return "", errors.Validation("member record needs a tax ID or enrollment ID")
	}

	rec := record.Clone()
	if rec.String(domain.FieldRegisteredAt) == "" {
		rec[domain.FieldRegisteredAt] = normalize.Timestamp(time.Now())
	}
	roster.SanitizeRecord(rec)

	if err := s.store.Members.Set(ctx, id, rec, true); err != nil {
		return "", err
	}
	return id, nil
}

// SaveBatch persists records one by one, skipping individual failures. It
// returns the number saved and the identifiers that failed.
func (s *MemberService) SaveBatch(ctx context.Context, records []domain.Record) (int, []string) {
	saved := 0
	var failed []string
	for _, rec := range records {
		id, err := s.Save(ctx, rec)
		if err != nil {
			if id == "" {
				id = rec.String(domain.FieldName)
			}
			failed = append(failed, id)
			s.logger.Warn("member save failed", "id", id, "error", err)
			continue
		}
		saved++
	}
	return saved, failed
}

// Delete removes a member record. Idempotent.
func (s *MemberService) Delete(ctx context.Context, id string) error {
	return s.store.Members.Delete(ctx, id)
}

// DeleteMany removes records one by one, skipping individual failures, and
// returns the number actually deleted.
func (s *MemberService) DeleteMany(ctx context.Context, ids []string) int {
	deleted := 0
	for _, id := range ids {
		if err := s.store.Members.Delete(ctx, id); err != nil {
			s.logger.Warn("member delete failed", "id", id, "error", err)
			continue
		}
		deleted++
	}
	return deleted
}

// RemoveProjects clears the project field on every member assigned to the
// given project and returns how many records were touched.
func (s *MemberService) RemoveProjects(ctx context.Context, project string) (int, error) {
	docs, err := s.store.Members.Query(ctx, domain.FieldProject, project)
	if err != nil {
		return 0, err
	}

	cleared := 0
	for _, doc := range docs {
		patch := domain.Record{domain.FieldProject: ""}
		if err := s.store.Members.Set(ctx, doc.ID, patch, true); err != nil {
			s.logger.Warn("project removal failed", "id", doc.ID, "error", err)
			continue
		}
		cleared++
	}
	return cleared, nil
}

// ReplaceFieldValue rewrites every occurrence of old in the given field to
// new, across all member records. Returns the number of records rewritten.
func (s *MemberService) ReplaceFieldValue(ctx context.Context, field, old, new string) (int, error) {
	docs, err := s.store.Members.Query(ctx, field, old)
	if err != nil {
		return 0, err
	}

	replaced := 0
	for _, doc := range docs {
		patch := domain.Record{field: new}
		if err := s.store.Members.Set(ctx, doc.ID, patch, true); err != nil {
			s.logger.Warn("field replacement failed", "id", doc.ID, "field", field, "error", err)
			continue
		}
		replaced++
	}
	return replaced, nil
}

// ImportCSV loads the roster export, cleans the batch, and saves every
// record. Returns the number of records saved.
func (s *MemberService) ImportCSV(ctx context.Context, extras *domain.Extras) (int, error) {
	if s.rosterPath == "" {
		return 0, errors.SourceUnavailable("no roster CSV configured")
	}

	rows, err := roster.LoadTable(s.rosterPath)
	if err != nil {
		return 0, errors.SourceUnavailable("roster CSV unreadable").WithCause(err)
	}

	cleaned := roster.CleanBatch(rows, extras)
	saved, failed := s.SaveBatch(ctx, cleaned)
	if len(failed) > 0 {
		s.logger.Warn("roster import saved with failures", "saved", saved, "failed", len(failed))
	}
	return saved, nil
}

// SyncResult reports the outcome of a reconciliation pass.
type SyncResult struct {
	Total   int      `json:"total"`    // Store records considered
	Updated []string `json:"updated"`  // Identifiers of records rewritten
	Failed  []string `json:"failed"`   // Identifiers whose write failed
	CSVUsed bool     `json:"csv_used"` // Whether the roster CSV was usable
}

// SynchronizeFields reconciles the store against the roster CSV. fields
// defaults to the full standard schema when nil.
//
// Matching is by identifier key in priority order: tax ID, then enrollment
// ID, then email, all punctuation-, case-, and accent-insensitive. Per field,
// a non-empty CSV value that differs from the stored one wins; fields absent
// from the stored record are backfilled with ""; raw timestamps and nulls in
// the stored record are sanitized in place. Each dirty record gets exactly
// one merge write.
//
// An unreadable or empty CSV degrades to a pass with an empty lookup; it is
// reported through CSVUsed, never as an error.
func (s *MemberService) SynchronizeFields(ctx context.Context, fields []string) (*SyncResult, error) {
	if len(fields) == 0 {
		fields = domain.StandardFields
	}

	lookup, csvUsed := s.buildRosterLookup()

	// Read-full-collection, compute, write-changed-subset. Concurrent
	// synchronization runs race with last-write-wins field semantics; the
	// dashboard has near-zero write concurrency.
	var docs []store.Document
	for doc, err := range s.store.Members.All(ctx) {
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	result := &SyncResult{Total: len(docs), CSVUsed: csvUsed}

	for _, doc := range docs {
		row := matchRow(lookup, doc)

		patch := domain.Record{}
		for _, field := range fields {
			var csvValue any
			if row != nil {
				csvValue = roster.SanitizeValue(row[field])
			}

			stored, present := doc.Fields[field]

			if csvStr, ok := csvValue.(string); ok && csvStr != "" {
				storedStr, isStr := roster.SanitizeValue(stored).(string)
				if !present || !isStr || storedStr != csvStr {
					patch[field] = csvStr
					continue
				}
			}

			switch {
			case !present:
				patch[field] = ""
			case isRawTimestamp(stored):
				patch[field] = roster.SanitizeValue(stored)
			case stored == nil:
				patch[field] = ""
			}
		}

		if len(patch) == 0 {
			continue
		}

		if err := s.store.Members.Set(ctx, doc.ID, patch, true); err != nil {
			s.logger.Warn("sync write failed", "id", doc.ID, "error", err)
			result.Failed = append(result.Failed, doc.ID)
			continue
		}
		result.Updated = append(result.Updated, doc.ID)
	}

	return result, nil
}

// buildRosterLookup indexes the cleaned roster CSV by the identifier keys of
// tax ID, enrollment ID, and email. The batch goes through the full cleaning
// pipeline first so the reconciler compares canonical values against the
// store. Rows with an empty field are not indexed under that key. Parse
// failures degrade to an empty lookup.
func (s *MemberService) buildRosterLookup() (map[string]domain.Record, bool) {
	if s.rosterPath == "" {
		return nil, false
	}

	rows, err := roster.LoadTable(s.rosterPath)
	if err != nil {
		s.logger.Warn("roster CSV unreadable, syncing without it", "path", s.rosterPath, "error", err)
		return nil, false
	}
	if len(rows) == 0 {
		return nil, false
	}
	rows = roster.CleanBatch(rows, nil)

	lookup := make(map[string]domain.Record)
	index := func(row domain.Record, field string) {
		key := normalize.IdentifierKey(row.String(field))
		if key == "" {
			return
		}
		if _, taken := lookup[key]; !taken {
			lookup[key] = row
		}
	}
	for _, row := range rows {
		index(row, domain.FieldTaxID)
		index(row, domain.FieldEnrollmentID)
		index(row, domain.FieldEmail)
	}
	return lookup, true
}

// matchRow finds the CSV row for a store document, trying tax ID, enrollment
// ID, and email in that priority order. The document key stands in for the
// tax ID when the field is absent or empty.
func matchRow(lookup map[string]domain.Record, doc store.Document) domain.Record {
	primary := doc.Fields.String(domain.FieldTaxID)
	if strings.TrimSpace(primary) == "" {
		primary = doc.ID
	}

	for _, candidate := range []string{
		primary,
		doc.Fields.String(domain.FieldEnrollmentID),
		doc.Fields.String(domain.FieldEmail),
	} {
		key := normalize.IdentifierKey(candidate)
		if key == "" {
			continue
		}
		if row, ok := lookup[key]; ok {
			return row
		}
	}
	return nil
}

// isRawTimestamp reports whether a stored value is a time object that never
// went through sanitization. These are rewritten to their string form once.
func isRawTimestamp(v any) bool {
	switch v.(type) {
	case time.Time, *time.Time:
		return true
	}
	return false
}
