package history

import (
	"fmt"
	"time"

	"github.com/XANi/gaia2mqtt/gaia"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Sample is one numeric reading from one poll. Non-numeric flat values
// (sys_time on some firmware) are not recorded.
type Sample struct {
	ID         uint      `gorm:"primaryKey"`
	RecordedAt time.Time `gorm:"index"`
	Key        string    `gorm:"index;size:64"`
	Value      float64
}

type Config struct {
	// Driver selects the gorm dialect, "sqlite" or "postgres".
	Driver    string
	DSN       string
	Logger    *zap.SugaredLogger
	Retention time.Duration
}

// Store keeps a local history of flattened poll values, independent of
// whatever recorder the Home Assistant side runs.
type Store struct {
	db        *gorm.DB
	log       *zap.SugaredLogger
	retention time.Duration
}

func Open(cfg Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open history store: %w", err)
	}
	if err := db.AutoMigrate(&Sample{}); err != nil {
		return nil, fmt.Errorf("cannot migrate history store: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{
		db:        db,
		log:       log,
		retention: cfg.Retention,
	}, nil
}

// Record stores every numeric value of one snapshot, then prunes anything
// past retention.
func (s *Store) Record(ts time.Time, flat gaia.FlatMap) error {
	samples := make([]Sample, 0, len(flat))
	for key, v := range flat {
		val, ok := v.(float64)
		if !ok {
			continue
		}
		samples = append(samples, Sample{RecordedAt: ts, Key: key, Value: val})
	}
	if len(samples) == 0 {
		return nil
	}
	if err := s.db.Create(&samples).Error; err != nil {
		return fmt.Errorf("cannot record samples: %w", err)
	}
	if s.retention > 0 {
		if n, err := s.Prune(ts.Add(-s.retention)); err != nil {
			s.log.Warnf("history prune failed: %s", err)
		} else if n > 0 {
			s.log.Debugf("pruned %d expired samples", n)
		}
	}
	return nil
}

// Prune deletes samples recorded before the cutoff, returning the number
// removed.
func (s *Store) Prune(before time.Time) (int64, error) {
	res := s.db.Where("recorded_at < ?", before).Delete(&Sample{})
	return res.RowsAffected, res.Error
}

// Latest returns up to limit samples for one key, newest first.
func (s *Store) Latest(key string, limit int) ([]Sample, error) {
	var samples []Sample
	err := s.db.Where("key = ?", key).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&samples).Error
	return samples, err
}
