// Package database carries a gorm transaction through context.Context so
// repositories built on the root *gorm.DB join the caller's transaction.
package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor runs fn inside one transaction. Repositories called with the
// ctx passed to fn share that transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// GormTransactor implements Transactor on a gorm connection.
type GormTransactor struct{ db *gorm.DB }

func NewGormTransactor(db *gorm.DB) *GormTransactor { return &GormTransactor{db: db} }

// WithTx starts a transaction, or joins the one already in ctx.
func (t *GormTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn returns the transaction stored in ctx, or db bound to ctx.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// InTx reports whether ctx carries a transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}
