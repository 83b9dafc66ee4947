package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/labdeskapp/labdesk-server/internal/domain"
)

// Document is a stored record together with its collection ID.
type Document struct {
	ID     string
	Fields domain.Record
}

// Collection stores flat field-map documents under a key prefix.
//
// Member records keep their schema-free shape from the roster spreadsheets,
// so they are persisted as raw field maps rather than a fixed struct. Set
// supports merge semantics: a merge write only touches the fields it names,
// leaving manually curated fields on the stored document intact.
type Collection struct {
	store  *Store
	prefix string
}

// NewCollection creates a Collection rooted at prefix.
func NewCollection(s *Store, prefix string) *Collection {
	return &Collection{store: s, prefix: prefix}
}

// Get retrieves the document stored under id.
// Returns ErrNotFound if no document exists.
func (c *Collection) Get(ctx context.Context, id string) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := c.prefix + id
	var fields domain.Record

	err := c.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &fields); err != nil {
				return fmt.Errorf("failed to unmarshal document: %w", err)
			}
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return fields, nil
}

// Set writes fields under id. With merge true, fields are combined into the
// stored document and keys absent from fields survive untouched. With merge
// false the stored document is replaced outright.
func (c *Collection) Set(ctx context.Context, id string, fields domain.Record, merge bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}

	key := c.prefix + id

	return c.store.db.Update(func(txn *badger.Txn) error {
		out := fields
		if merge {
			item, err := txn.Get([]byte(key))
			if err == nil {
				var stored domain.Record
				err = item.Value(func(val []byte) error {
					return json.Unmarshal(val, &stored)
				})
				if err != nil {
					return fmt.Errorf("failed to unmarshal stored document: %w", err)
				}
				for k, v := range fields {
					stored[k] = v
				}
				out = stored
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("failed to check existing key: %w", err)
			}
		}

		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}

		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}
		return nil
	})
}

// Delete removes the document stored under id.
// This operation is idempotent; deleting a missing document is not an error.
func (c *Collection) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.store.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(c.prefix + id)); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}
		return nil
	})
}

// All returns an iterator over every document in the collection.
func (c *Collection) All(ctx context.Context) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		yielded := false
		err := c.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(c.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(c.prefix)); it.ValidForPrefix([]byte(c.prefix)); it.Next() {
				if ctx.Err() != nil {
					yielded = true
					yield(Document{}, ctx.Err())
					return ctx.Err()
				}

				id := string(it.Item().Key())[len(c.prefix):]

				var fields domain.Record
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &fields)
				})
				if err != nil {
					yielded = true
					yield(Document{}, err)
					return err
				}

				if !yield(Document{ID: id, Fields: fields}, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
		// A transaction-level failure, like a closed database, surfaces
		// before the first item; without this the caller would see an
		// empty collection.
		if err != nil && !yielded {
			yield(Document{}, err)
		}
	}
}

// Query returns every document whose field equals value after string
// conversion. A full scan; the collection is small enough that a per-field
// index would not pay for itself.
func (c *Collection) Query(ctx context.Context, field, value string) ([]Document, error) {
	var matches []Document
	for doc, err := range c.All(ctx) {
		if err != nil {
			return nil, err
		}
		if doc.Fields.String(field) == value {
			matches = append(matches, doc)
		}
	}
	return matches, nil
}

// Count returns the number of documents in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := c.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(c.prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(c.prefix)); it.ValidForPrefix([]byte(c.prefix)); it.Next() {
			count++
		}
		return nil
	})

	return count, err
}

// IsEmpty reports whether the collection holds no documents.
func (c *Collection) IsEmpty(ctx context.Context) (bool, error) {
	n, err := c.Count(ctx)
	return n == 0, err
}
