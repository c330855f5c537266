package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChatID identifies a Telegram chat that receives replies and notifications.
type ChatID int64

// GasAlert fires once when the standard gas price falls to or below Threshold (Gwei).
type GasAlert struct {
	Seq       uint64          `json:"seq"`
	ChatID    ChatID          `json:"chat_id"`
	Threshold decimal.Decimal `json:"threshold"`
	CreatedAt time.Time       `json:"created_at"`
}

// PriceAlert fires once when the ETH spot price rises to or above Threshold (USD).
type PriceAlert struct {
	Seq       uint64          `json:"seq"`
	ChatID    ChatID          `json:"chat_id"`
	Threshold decimal.Decimal `json:"threshold"`
	CreatedAt time.Time       `json:"created_at"`
}

// Watch is a watched wallet address and the chats that asked to watch it.
type Watch struct {
	Address string    `json:"address"`
	ChatIDs []ChatID  `json:"chat_ids"`
	Since   time.Time `json:"since"`
}

// GasOracle holds gas price tiers in Gwei.
type GasOracle struct {
	Fast     decimal.Decimal `json:"fast"`
	Standard decimal.Decimal `json:"standard"`
	Slow     decimal.Decimal `json:"slow"`
	BaseFee  decimal.Decimal `json:"base_fee"`
}

// Transaction is a normal (ETH) transaction; Value is in ETH.
type Transaction struct {
	Hash        string          `json:"hash"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Value       decimal.Decimal `json:"value"`
	BlockNumber uint64          `json:"block_number"`
	Timestamp   time.Time       `json:"timestamp"`
}

// TokenTransfer is an ERC-20 transfer event; Amount is already scaled by Decimals.
type TokenTransfer struct {
	Hash            string          `json:"hash"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	ContractAddress string          `json:"contract_address"`
	TokenName       string          `json:"token_name"`
	TokenSymbol     string          `json:"token_symbol"`
	Decimals        int32           `json:"decimals"`
	Amount          decimal.Decimal `json:"amount"`
}

// PricePoint is one sample of a price history.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}
