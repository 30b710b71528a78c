package dto

import "github.com/shopspring/decimal"

// ── 薪资历史 ──

// CreatePayHistoryRequest 新增薪资记录请求
type CreatePayHistoryRequest struct {
	RateChangeDate string          `json:"rateChangeDate" binding:"required,isodate"`
	Rate           decimal.Decimal `json:"rate"`
	PayFrequency   int16           `json:"payFrequency"   binding:"required"`
}

// PayHistoryResponse 薪资记录
type PayHistoryResponse struct {
	EmployeeID     int32           `json:"employeeId"`
	RateChangeDate string          `json:"rateChangeDate"`
	Rate           decimal.Decimal `json:"rate"`
	PayFrequency   int16           `json:"payFrequency"`
	LastModified   string          `json:"lastModified"`
}
