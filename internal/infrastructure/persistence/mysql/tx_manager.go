package mysql

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager 事务管理器
// 事务对象放入context，仓储通过getDB(ctx)取出，业务层无需感知*gorm.DB：
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    p, err := purchaseRepo.LockByID(ctx, id) // 同一事务
//	    ...
//	    return purchaseRepo.Save(ctx, p)
//	})
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction fn返回错误或panic时回滚，否则提交
// ctx中已有事务时直接复用，不开启嵌套事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok
}

// getDB 优先使用context中的事务
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// withTx 多条语句需要原子执行时使用：已在事务中则复用，否则开启新事务
func withTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx, ok := txFromContext(ctx); ok {
		return fn(tx.WithContext(ctx))
	}
	return db.WithContext(ctx).Transaction(fn)
}
