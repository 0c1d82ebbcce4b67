package gorm

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seed fills an empty members table with count fake rows so the list
// pages have something to paginate. A non-empty table is left alone.
func Seed(ctx context.Context, db *gorm.DB, count int, logger *zap.Logger) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&MemberModel{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("checking members table: %w", err)
	}
	if existing > 0 {
		return nil
	}

	faker := gofakeit.New(0)
	rows := make([]MemberModel, 0, count)
	for i := 0; i < count; i++ {
		name := faker.Name()
		rows = append(rows, MemberModel{
			ID:   uuid.New(),
			Name: name,
			// Index keeps the unique email constraint safe from name collisions.
			Email:     fmt.Sprintf("%s.%d@%s", faker.Username(), i, faker.DomainName()),
			Age:       faker.Number(18, 90),
			IsActive:  faker.Bool(),
			CreatedAt: faker.DateRange(time.Now().AddDate(-2, 0, 0), time.Now()),
		})
	}
	if err := db.WithContext(ctx).CreateInBatches(rows, 50).Error; err != nil {
		return fmt.Errorf("seeding members: %w", err)
	}
	if logger != nil {
		logger.Info("seeded demo members", zap.Int("count", count))
	}
	return nil
}
