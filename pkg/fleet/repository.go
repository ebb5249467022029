package fleet

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/opd-ai/go-orbiter/pkg/save"
)

const (
	shipPrefix = "ships/"
	activeKey  = "fleet/active"
)

// Repository reads and writes ship records through a save store.
type Repository struct {
	store save.Store
}

func NewRepository(store save.Store) *Repository {
	return &Repository{store: store}
}

func shipKey(id uint64) string {
	return shipPrefix + strconv.FormatUint(id, 10)
}

// LoadFleet returns every stored ship record.
func (r *Repository) LoadFleet(ctx context.Context) ([]save.ShipRecord, error) {
	keys, err := r.store.Keys(ctx, shipPrefix)
	if err != nil {
		return nil, fmt.Errorf("list ships: %w", err)
	}
	records := make([]save.ShipRecord, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		rec, err := save.DecodeRecord(data)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadShip returns one record or save.ErrNotFound.
func (r *Repository) LoadShip(ctx context.Context, id uint64) (save.ShipRecord, error) {
	data, err := r.store.Get(ctx, shipKey(id))
	if err != nil {
		return save.ShipRecord{}, err
	}
	return save.DecodeRecord(data)
}

func (r *Repository) SaveShip(ctx context.Context, rec save.ShipRecord) error {
	data, err := save.EncodeRecord(rec)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, shipKey(rec.ID), data); err != nil {
		return fmt.Errorf("save ship %d: %w", rec.ID, err)
	}
	return nil
}

// SaveAll writes every record, continuing past failures.
func (r *Repository) SaveAll(ctx context.Context, recs []save.ShipRecord) error {
	var errs []error
	for _, rec := range recs {
		if err := r.SaveShip(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Repository) DeleteShip(ctx context.Context, id uint64) error {
	return r.store.Delete(ctx, shipKey(id))
}

// ActiveShipID returns the stored active ship, or save.ErrNotFound.
func (r *Repository) ActiveShipID(ctx context.Context) (uint64, error) {
	data, err := r.store.Get(ctx, activeKey)
	if err != nil {
		return 0, err
	}
	return save.DecodeID(data)
}

func (r *Repository) SetActiveShipID(ctx context.Context, id uint64) error {
	data, err := save.EncodeID(id)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, activeKey, data)
}
