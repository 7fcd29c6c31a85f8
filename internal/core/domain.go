package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	FixedRate    InterestType = "fixed"
	VariableRate InterestType = "variable"
	GeneralRate  InterestType = "general"
)

const (
	RepeatNone    Recurrence = "none"
	RepeatMonthly Recurrence = "monthly"
	RepeatYearly  Recurrence = "yearly"
)

type (
	BudgetPeriod    string
	TransactionType string
	InterestType    string
	Recurrence      string

	// Date is a calendar day. The time-of-day part is always midnight UTC.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash string
	}

	// Category is user-owned and may reference a parent category,
	// forming a one-level tree in practice.
	Category struct {
		ID       int64
		UserID   int64
		Name     string
		ParentID int64 // 0 means top-level
	}

	Asset struct {
		ID               int64
		UserID           int64
		Type             string
		Name             string
		AcquisitionValue Money
		AcquisitionDate  Date
	}

	// AssetValue is a point-in-time valuation snapshot. At most one
	// snapshot exists per asset and date.
	AssetValue struct {
		ID            int64
		AssetID       int64
		ValuationDate Date
		Value         Money
	}

	Liability struct {
		ID        int64
		UserID    int64
		Type      string
		Name      string
		Principal Money
		StartDate Date
		EndDate   Date // zero means open-ended
	}

	LiabilityValue struct {
		ID            int64
		LiabilityID   int64
		ValuationDate Date
		Value         Money
	}

	// Interest is an annual rate attached to a liability. The active rate
	// shares the liability's start date.
	Interest struct {
		ID          int64
		LiabilityID int64
		Rate        float64 // annual percentage, e.g. 2.10
		Type        InterestType
		StartDate   Date
	}

	Transaction struct {
		ID             int64
		UserID         int64
		CategoryID     int64 // 0 means uncategorized
		AssetID        int64 // 0 means no account
		LiabilityID    int64
		RelatedAssetID int64 // transfer counterpart
		Type           TransactionType
		Amount         Money // non-negative, sign implied by Type
		Date           Date
		Description    string
	}

	Budget struct {
		ID         int64
		UserID     int64
		CategoryID int64
		Amount     Money
		Period     BudgetPeriod
		StartDate  Date // zero means unset
		EndDate    Date
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	// BudgetStatus is derived, never persisted.
	BudgetStatus struct {
		BudgetID        int64
		CategoryID      int64
		CategoryName    string
		BudgetAmount    Money
		SpentAmount     Money
		RemainingAmount Money
		PercentageUsed  float64
		IsExceeded      bool
		PeriodStart     Date
		PeriodEnd       Date
	}

	DashboardMetrics struct {
		TotalIncome  Money
		TotalExpense Money
		NetProfit    Money
	}

	CategoryDetail struct {
		Category         Category
		Subcategories    []Category
		TotalIncome      Money
		TotalExpense     Money
		NetBalance       Money
		TransactionCount int64
		Transactions     []Transaction
	}

	// TransactionTemplate is a reusable draft for creating transactions.
	// CategoryName is an apply-time fallback: when CategoryID is unset, the
	// named category is looked up or created on first use.
	TransactionTemplate struct {
		ID             int64
		UserID         int64
		Name           string
		Type           TransactionType
		Amount         Money
		CategoryID     int64
		CategoryName   string
		AssetID        int64
		RelatedAssetID int64
		LiabilityID    int64
		Description    string
		Recurrence     Recurrence
		StartDate      Date
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidPeriod     = errors.New("invalid budget period")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidDateRange  = errors.New("end date before start date")
	ErrEmptyName         = errors.New("empty name")
	ErrNothingToReassign = errors.New("no transactions to reassign")
	ErrExternalService   = errors.New("external service failure")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO yyyy-MM-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ISO formats the date as yyyy-MM-dd. Zero dates format as the empty string.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Before reports whether d is strictly before other, comparing days.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly after other, comparing days.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.ISO() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (p BudgetPeriod) Valid() bool {
	return p == Monthly || p == Yearly
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (r Recurrence) Valid() bool {
	return r == RepeatNone || r == RepeatMonthly || r == RepeatYearly
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks a budget before create or update. StartDate may be zero;
// the store fills in the period default on creation.
func (b Budget) Validate() error {
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if b.CategoryID == 0 {
		return errors.New("budget requires a category")
	}
	if !b.StartDate.IsZero() && !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t TransactionTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Recurrence != "" && !t.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	if t.CategoryID == 0 && strings.TrimSpace(t.CategoryName) == "" {
		return errors.New("template requires a category id or name")
	}
	return nil
}
