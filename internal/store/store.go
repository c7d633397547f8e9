// Package store caches the last successfully fetched catalog in SQLite so
// the scene can start when the catalog service is unreachable.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/litescript/ls-exoplanets/internal/catalog"
)

// ErrNoCatalog is returned by LoadCatalog when nothing has been saved.
var ErrNoCatalog = errors.New("no cached catalog")

// snapshot records when the cached catalog was saved.
type snapshot struct {
	ID       uint `gorm:"primaryKey"`
	SavedAt  time.Time
	RowCount int
}

// cachedRow is one catalog row. Seq keeps the catalog order, which
// grouping depends on.
type cachedRow struct {
	ID              uint `gorm:"primaryKey"`
	Seq             int  `gorm:"index"`
	Hostname        string
	Name            string
	Type            string
	SemiMajorAxis   *float64
	EarthRadii      *float64
	RadiusRatio     *float64
	Period          *float64
	Inclination     *float64
	StarTemp        *float64
	StarRadius      *float64
	SpectralType    *string
	X, Y, Z         *float64
	Distance        *float64
	DiscoveryMethod *string
}

// Store is a SQLite-backed catalog cache.
type Store struct {
	db *gorm.DB
}

// Open opens or creates the cache at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	if err := db.AutoMigrate(&snapshot{}, &cachedRow{}); err != nil {
		return nil, fmt.Errorf("migrating cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveCatalog replaces the cached catalog in a single transaction.
func (s *Store) SaveCatalog(ctx context.Context, rows []catalog.Row, savedAt time.Time) error {
	records := make([]cachedRow, len(rows))
	for i, r := range rows {
		records[i] = toRecord(i, r)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&cachedRow{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&snapshot{}).Error; err != nil {
			return err
		}
		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}
		return tx.Create(&snapshot{SavedAt: savedAt.UTC(), RowCount: len(rows)}).Error
	})
	if err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	return nil
}

// LoadCatalog returns the cached rows in their original order and the time
// they were saved.
func (s *Store) LoadCatalog(ctx context.Context) ([]catalog.Row, time.Time, error) {
	db := s.db.WithContext(ctx)

	var snap snapshot
	err := db.Order("id desc").First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, ErrNoCatalog
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("loading cache snapshot: %w", err)
	}

	var records []cachedRow
	if err := db.Order("seq").Find(&records).Error; err != nil {
		return nil, time.Time{}, fmt.Errorf("loading cached rows: %w", err)
	}

	rows := make([]catalog.Row, len(records))
	for i, rec := range records {
		rows[i] = rec.row()
	}
	return rows, snap.SavedAt, nil
}

func toRecord(seq int, r catalog.Row) cachedRow {
	return cachedRow{
		Seq:             seq,
		Hostname:        r.Hostname,
		Name:            r.Name,
		Type:            r.Type.String(),
		SemiMajorAxis:   r.SemiMajorAxis,
		EarthRadii:      r.EarthRadii,
		RadiusRatio:     r.RadiusRatio,
		Period:          r.Period,
		Inclination:     r.Inclination,
		StarTemp:        r.StarTemp,
		StarRadius:      r.StarRadius,
		SpectralType:    r.SpectralType,
		X:               r.X,
		Y:               r.Y,
		Z:               r.Z,
		Distance:        r.Distance,
		DiscoveryMethod: r.DiscoveryMethod,
	}
}

func (c cachedRow) row() catalog.Row {
	return catalog.Row{
		Hostname:        c.Hostname,
		Name:            c.Name,
		Type:            catalog.ParsePlanetType(c.Type),
		SemiMajorAxis:   c.SemiMajorAxis,
		EarthRadii:      c.EarthRadii,
		RadiusRatio:     c.RadiusRatio,
		Period:          c.Period,
		Inclination:     c.Inclination,
		StarTemp:        c.StarTemp,
		StarRadius:      c.StarRadius,
		SpectralType:    c.SpectralType,
		X:               c.X,
		Y:               c.Y,
		Z:               c.Z,
		Distance:        c.Distance,
		DiscoveryMethod: c.DiscoveryMethod,
	}
}
