package http

import "cartera/internal/core"

// Request bodies carry amounts as decimal strings ("12,50" or "12.50") and
// dates as ISO strings; responses carry cents so clients never re-parse
// locale formatting.

type categoryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id,omitempty"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, ParentID: c.ParentID}
}

type assetResponse struct {
	ID                    int64     `json:"id"`
	Type                  string    `json:"type,omitempty"`
	Name                  string    `json:"name"`
	AcquisitionValueCents int64     `json:"acquisition_value_cents,omitempty"`
	AcquisitionDate       core.Date `json:"acquisition_date,omitempty"`
}

func toAssetResponse(a core.Asset) assetResponse {
	return assetResponse{
		ID:                    a.ID,
		Type:                  a.Type,
		Name:                  a.Name,
		AcquisitionValueCents: a.AcquisitionValue.Cents,
		AcquisitionDate:       a.AcquisitionDate,
	}
}

type valueResponse struct {
	ValuationDate core.Date `json:"valuation_date"`
	ValueCents    int64     `json:"value_cents"`
}

type liabilityResponse struct {
	ID             int64     `json:"id"`
	Type           string    `json:"type,omitempty"`
	Name           string    `json:"name"`
	PrincipalCents int64     `json:"principal_cents,omitempty"`
	StartDate      core.Date `json:"start_date,omitempty"`
	EndDate        core.Date `json:"end_date,omitempty"`
}

func toLiabilityResponse(l core.Liability) liabilityResponse {
	return liabilityResponse{
		ID:             l.ID,
		Type:           l.Type,
		Name:           l.Name,
		PrincipalCents: l.Principal.Cents,
		StartDate:      l.StartDate,
		EndDate:        l.EndDate,
	}
}

type interestResponse struct {
	ID        int64     `json:"id"`
	Rate      float64   `json:"rate"`
	Type      string    `json:"type"`
	StartDate core.Date `json:"start_date"`
}

type transactionResponse struct {
	ID             int64     `json:"id"`
	CategoryID     int64     `json:"category_id,omitempty"`
	AssetID        int64     `json:"asset_id,omitempty"`
	LiabilityID    int64     `json:"liability_id,omitempty"`
	RelatedAssetID int64     `json:"related_asset_id,omitempty"`
	Type           string    `json:"type"`
	AmountCents    int64     `json:"amount_cents"`
	Date           core.Date `json:"date"`
	Description    string    `json:"description,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:             t.ID,
		CategoryID:     t.CategoryID,
		AssetID:        t.AssetID,
		LiabilityID:    t.LiabilityID,
		RelatedAssetID: t.RelatedAssetID,
		Type:           string(t.Type),
		AmountCents:    t.Amount.Cents,
		Date:           t.Date,
		Description:    t.Description,
	}
}

func toTransactionResponses(transactions []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

type budgetResponse struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	AmountCents int64     `json:"amount_cents"`
	Period      string    `json:"period"`
	StartDate   core.Date `json:"start_date"`
	EndDate     core.Date `json:"end_date,omitempty"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:          b.ID,
		CategoryID:  b.CategoryID,
		AmountCents: b.Amount.Cents,
		Period:      string(b.Period),
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
	}
}

type budgetStatusResponse struct {
	BudgetID             int64     `json:"budget_id"`
	CategoryID           int64     `json:"category_id"`
	CategoryName         string    `json:"category_name"`
	BudgetAmountCents    int64     `json:"budget_amount_cents"`
	SpentAmountCents     int64     `json:"spent_amount_cents"`
	RemainingAmountCents int64     `json:"remaining_amount_cents"`
	PercentageUsed       float64   `json:"percentage_used"`
	IsExceeded           bool      `json:"is_exceeded"`
	PeriodStart          core.Date `json:"period_start"`
	PeriodEnd            core.Date `json:"period_end"`
}

func toBudgetStatusResponse(s core.BudgetStatus) budgetStatusResponse {
	return budgetStatusResponse{
		BudgetID:             s.BudgetID,
		CategoryID:           s.CategoryID,
		CategoryName:         s.CategoryName,
		BudgetAmountCents:    s.BudgetAmount.Cents,
		SpentAmountCents:     s.SpentAmount.Cents,
		RemainingAmountCents: s.RemainingAmount.Cents,
		PercentageUsed:       s.PercentageUsed,
		IsExceeded:           s.IsExceeded,
		PeriodStart:          s.PeriodStart,
		PeriodEnd:            s.PeriodEnd,
	}
}

type dashboardResponse struct {
	TotalIncomeCents  int64 `json:"total_income_cents"`
	TotalExpenseCents int64 `json:"total_expense_cents"`
	NetProfitCents    int64 `json:"net_profit_cents"`
}

type templateResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	AmountCents  int64     `json:"amount_cents"`
	CategoryID   int64     `json:"category_id,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	AssetID      int64     `json:"asset_id,omitempty"`
	LiabilityID  int64     `json:"liability_id,omitempty"`
	Description  string    `json:"description,omitempty"`
	Recurrence   string    `json:"recurrence"`
	StartDate    core.Date `json:"start_date,omitempty"`
}

func toTemplateResponse(t core.TransactionTemplate) templateResponse {
	return templateResponse{
		ID:           t.ID,
		Name:         t.Name,
		Type:         string(t.Type),
		AmountCents:  t.Amount.Cents,
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
		AssetID:      t.AssetID,
		LiabilityID:  t.LiabilityID,
		Description:  t.Description,
		Recurrence:   string(t.Recurrence),
		StartDate:    t.StartDate,
	}
}

type categoryDetailResponse struct {
	Category          categoryResponse      `json:"category"`
	Subcategories     []categoryResponse    `json:"subcategories"`
	TotalIncomeCents  int64                 `json:"total_income_cents"`
	TotalExpenseCents int64                 `json:"total_expense_cents"`
	NetBalanceCents   int64                 `json:"net_balance_cents"`
	TransactionCount  int64                 `json:"transaction_count"`
	Transactions      []transactionResponse `json:"transactions"`
}

func toCategoryDetailResponse(d core.CategoryDetail) categoryDetailResponse {
	subs := make([]categoryResponse, 0, len(d.Subcategories))
	for _, c := range d.Subcategories {
		subs = append(subs, toCategoryResponse(c))
	}
	return categoryDetailResponse{
		Category:          toCategoryResponse(d.Category),
		Subcategories:     subs,
		TotalIncomeCents:  d.TotalIncome.Cents,
		TotalExpenseCents: d.TotalExpense.Cents,
		NetBalanceCents:   d.NetBalance.Cents,
		TransactionCount:  d.TransactionCount,
		Transactions:      toTransactionResponses(d.Transactions),
	}
}
