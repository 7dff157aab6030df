package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chiaweilo/go-bank-ledger/internal/app/core/domain"
)

// PostingUseCase 交易入帳引擎
// 負責交易的 create/update/delete 生命週期，保證交易列與餘額效果
// 在同一個原子工作單元內一起提交或一起失敗
type PostingUseCase struct {
	ledger Ledger
}

func NewPostingUseCase(ledger Ledger) *PostingUseCase {
	return &PostingUseCase{
		ledger: ledger,
	}
}

// CreateTransaction 建立一筆交易並套用其餘額效果
//
// 流程: 驗證 -> 套用差額 -> 寫入交易列 -> 提交
// 驗證失敗不碰儲存層；差額套用失敗 (餘額不足) 則整個單元放棄
func (p *PostingUseCase) CreateTransaction(ctx context.Context, accountID uuid.UUID, typ domain.TransactionType, amount decimal.Decimal) (*domain.Transaction, error) {
	if err := domain.ValidatePosting(typ, amount); err != nil {
		return nil, err
	}

	exists, err := p.ledger.AccountExists(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrAccountNotFound
	}

	tran := &domain.Transaction{
		AccountID: accountID,
		Type:      typ,
		Amount:    amount,
	}
	err = p.ledger.WithinTx(ctx, func(tx LedgerTx) error {
		if _, err := tx.ApplyDelta(ctx, accountID, tran.SignedDelta()); err != nil {
			return err
		}
		return tx.InsertTransaction(ctx, tran)
	})
	if err != nil {
		return nil, err
	}
	return tran, nil
}

// UpdateTransaction 更新交易的類型和/或金額，並同步修正餘額
// 未提供的欄位沿用既有值
//
// 舊效果的沖銷和新效果的套用合併成一個淨差額，在帳戶列鎖之下
// 一次套用；沖銷不會被單獨提交，新效果套用失敗時兩者一起回滾。
// 既有交易以鎖定讀取載入，同一筆交易的並發更新在此序列化
func (p *PostingUseCase) UpdateTransaction(ctx context.Context, id int64, newType *domain.TransactionType, newAmount *decimal.Decimal) (*domain.Transaction, error) {
	if newType != nil {
		if _, err := domain.ParseTransactionType(string(*newType)); err != nil {
			return nil, err
		}
	}
	if newAmount != nil && !newAmount.IsPositive() {
		return nil, domain.ErrAmountMustBePositive
	}

	var updated *domain.Transaction
	err := p.ledger.WithinTx(ctx, func(tx LedgerTx) error {
		existing, err := tx.GetTransactionForUpdate(ctx, id)
		if err != nil {
			return err
		}

		typ := existing.Type
		amount := existing.Amount
		if newType != nil {
			typ = *newType
		}
		if newAmount != nil {
			amount = *newAmount
		}

		delta := domain.SignedDelta(typ, amount).Sub(existing.SignedDelta())
		if !delta.IsZero() {
			if _, err := tx.ApplyDelta(ctx, existing.AccountID, delta); err != nil {
				return err
			}
		}

		existing.Type = typ
		existing.Amount = amount
		if err := tx.UpdateTransaction(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction 刪除交易並沖銷其餘額效果
// 沖銷一筆已被花掉的存款若會使餘額為負，一樣以 ErrInsufficientFunds 拒絕
func (p *PostingUseCase) DeleteTransaction(ctx context.Context, id int64) error {
	return p.ledger.WithinTx(ctx, func(tx LedgerTx) error {
		existing, err := tx.GetTransactionForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ApplyDelta(ctx, existing.AccountID, existing.SignedDelta().Neg()); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, existing.ID)
	})
}

// GetAccountBalance 取得帳戶當前餘額
func (p *PostingUseCase) GetAccountBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	return p.ledger.GetAccountBalance(ctx, accountID)
}

// SumCustomerBalances 加總客戶所有帳戶的餘額
func (p *PostingUseCase) SumCustomerBalances(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return p.ledger.SumBalances(ctx, customerID)
}
