package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cartera/internal/core"
	"cartera/internal/storage"
)

// ContextBuilder assembles the financial context document consumed by the
// chat feature. The document is the exact and only input handed to the
// language model, so section order and formatting are fixed.
//
// Sections are independently resilient: a failed query degrades that one
// section to a placeholder line and the rest of the document still builds.
type ContextBuilder struct {
	storage    *storage.SQLiteRepository
	valuations *ValuationService
}

func NewContextBuilder(storage *storage.SQLiteRepository, valuations *ValuationService) *ContextBuilder {
	return &ContextBuilder{storage: storage, valuations: valuations}
}

// Build renders the document. A zero asOf means "latest known values"; an
// explicit date switches the asset/liability sections (and only those, the
// headline summary deliberately stays on latest values) to that date.
func (b *ContextBuilder) Build(ctx context.Context, userID int64, asOf core.Date) string {
	var doc strings.Builder

	b.writeSummary(ctx, &doc, userID)
	b.writeAssets(ctx, &doc, userID, asOf)
	b.writeLiabilities(ctx, &doc, userID, asOf)
	b.writeAssetHistory(ctx, &doc, userID)
	b.writeLiabilityHistory(ctx, &doc, userID)
	b.writeTransactions(ctx, &doc, userID)

	return doc.String()
}

func sectionError(ctx context.Context, doc *strings.Builder, section string, err error) {
	slog.ErrorContext(ctx, "Context section failed", "section", section, "error", err)
	doc.WriteString("Error loading " + section + "\n\n")
}

// writeSummary renders headline net worth from the latest known values,
// regardless of any as-of date used elsewhere in the document.
func (b *ContextBuilder) writeSummary(ctx context.Context, doc *strings.Builder, userID int64) {
	doc.WriteString("FINANCIAL SUMMARY\n")

	assets, err := b.storage.ListAssets(ctx, userID)
	if err != nil {
		sectionError(ctx, doc, "summary", err)
		return
	}
	liabilities, err := b.storage.ListLiabilities(ctx, userID)
	if err != nil {
		sectionError(ctx, doc, "summary", err)
		return
	}

	var totalAssets, totalLiabilities int64
	for _, a := range assets {
		v, err := b.valuations.ResolveAssetValue(ctx, a.ID, core.Date{})
		if errors.Is(err, core.ErrNotFound) {
			continue
		}
		if err != nil {
			sectionError(ctx, doc, "summary", err)
			return
		}
		totalAssets += v.Value.Cents
	}
	for _, l := range liabilities {
		v, err := b.valuations.ResolveLiabilityValue(ctx, l.ID, core.Date{})
		if errors.Is(err, core.ErrNotFound) {
			continue
		}
		if err != nil {
			sectionError(ctx, doc, "summary", err)
			return
		}
		totalLiabilities += v.Value.Cents
	}

	doc.WriteString("Total assets: " + core.FormatEuros(totalAssets) + "\n")
	doc.WriteString("Total liabilities: " + core.FormatEuros(totalLiabilities) + "\n")
	doc.WriteString("Net worth: " + core.FormatEuros(totalAssets-totalLiabilities) + "\n\n")
}

// writeAssets renders one block per asset. With an as-of date, assets
// without a snapshot for exactly that date are omitted.
func (b *ContextBuilder) writeAssets(ctx context.Context, doc *strings.Builder, userID int64, asOf core.Date) {
	doc.WriteString("ASSETS\n")

	assets, err := b.storage.ListAssets(ctx, userID)
	if err != nil {
		sectionError(ctx, doc, "assets", err)
		return
	}
	for _, a := range assets {
		v, err := b.valuations.ResolveAssetValue(ctx, a.ID, asOf)
		if errors.Is(err, core.ErrNotFound) {
			continue
		}
		if err != nil {
			sectionError(ctx, doc, "assets", err)
			return
		}
		line := "- " + a.Name
		if a.Type != "" {
			line += " (" + a.Type + ")"
		}
		line += ": current value " + core.FormatEuros(v.Value.Cents)
		if a.AcquisitionValue.Cents > 0 {
			line += ", acquired for " + core.FormatEuros(a.AcquisitionValue.Cents)
		}
		if !a.AcquisitionDate.IsZero() {
			line += " on " + a.AcquisitionDate.ISO()
		}
		doc.WriteString(line + "\n")
	}
	doc.WriteString("\n")
}

func (b *ContextBuilder) writeLiabilities(ctx context.Context, doc *strings.Builder, userID int64, asOf core.Date) {
	doc.WriteString("LIABILITIES\n")

	liabilities, err := b.storage.ListLiabilities(ctx, userID)
	if err != nil {
		sectionError(ctx, doc, "liabilities", err)
		return
	}
	for _, l := range liabilities {
		v, err := b.valuations.ResolveLiabilityValue(ctx, l.ID, asOf)
		if errors.Is(err, core.ErrNotFound) {
			continue
		}
		if err != nil {
			sectionError(ctx, doc, "liabilities", err)
			return
		}
		line := "- " + l.Name
		if l.Type != "" {
			line += " (" + l.Type + ")"
		}
		line += ": outstanding " + core.FormatEuros(v.Value.Cents)
		if l.Principal.Cents > 0 {
			line += ", principal " + core.FormatEuros(l.Principal.Cents)
		}
		if rate, ok, err := b.valuations.ResolveLiabilityRate(ctx, l); err == nil && ok && rate.Rate > 0 {
			line += ", annual rate " + core.FormatRate(rate.Rate)
		}
		if !l.StartDate.IsZero() {
			line += ", start " + l.StartDate.ISO()
		}
		if !l.EndDate.IsZero() {
			line += ", end " + l.EndDate.ISO()
		}
		doc.WriteString(line + "\n")
	}
	doc.WriteString("\n")
}

// writeAssetHistory lists every valuation snapshot, grouped by asset name,
// newest first within each group.
func (b *ContextBuilder) writeAssetHistory(ctx context.Context, doc *strings.Builder, userID int64) {
	doc.WriteString("ASSET VALUE HISTORY\n")

	assets, err := b.storage.ListAssets(ctx, userID)
	if err != nil {
		sectionError(ctx, doc, "asset history", err)
		return
	}
	for _, a := range assets {
		values, err := b.storage.ListAssetValues(ctx, a.ID)
		if err != nil {
			sectionError(ctx, doc, "asset history", err)
			return
		}
		if len(values) == 0 {
			continue
		}
		doc.WriteString(a.Name + ":\n")
		for _, v := range values {
			doc.WriteString("  " + v.ValuationDate.ISO() + ": " + core.FormatEuros(v.Value.Cents) + "\n")
		}
	}
	doc.WriteString("\n")
}

func (b *ContextBuilder) writeLiabilityHistory(ctx context.Context, doc *strings.Builder, userID int64) {
	doc.WriteString("LIABILITY VALUE HISTORY\n")

	liabilities, err := b.storage.ListLiabilities(ctx, userID)
	if err != nil {
		sectionError(ctx, doc, "liability history", err)
		return
	}
	for _, l := range liabilities {
		values, err := b.storage.ListLiabilityValues(ctx, l.ID)
		if err != nil {
			sectionError(ctx, doc, "liability history", err)
			return
		}
		if len(values) == 0 {
			continue
		}
		doc.WriteString(l.Name + ":\n")
		for _, v := range values {
			doc.WriteString("  " + v.ValuationDate.ISO() + ": " + core.FormatEuros(v.Value.Cents) + "\n")
		}
	}
	doc.WriteString("\n")
}

// writeTransactions renders the full ledger, newest first, one line per
// transaction: `ISO-date | signed-amount€ | label [account]`.
func (b *ContextBuilder) writeTransactions(ctx context.Context, doc *strings.Builder, userID int64) {
	doc.WriteString("TRANSACTIONS\n")

	transactions, err := b.storage.ListTransactions(ctx, storage.TransactionFilter{UserID: userID})
	if err != nil {
		sectionError(ctx, doc, "transactions", err)
		return
	}
	categoryNames, err := b.storage.CategoryNames(ctx, userID)
	if err != nil {
		sectionError(ctx, doc, "transactions", err)
		return
	}
	assetNames, liabilityNames, err := b.accountNames(ctx, userID)
	if err != nil {
		sectionError(ctx, doc, "transactions", err)
		return
	}

	for _, t := range transactions {
		doc.WriteString(transactionLine(t, categoryNames, assetNames, liabilityNames) + "\n")
	}
}

func (b *ContextBuilder) accountNames(ctx context.Context, userID int64) (map[int64]string, map[int64]string, error) {
	assets, err := b.storage.ListAssets(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	liabilities, err := b.storage.ListLiabilities(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	assetNames := make(map[int64]string, len(assets))
	for _, a := range assets {
		assetNames[a.ID] = a.Name
	}
	liabilityNames := make(map[int64]string, len(liabilities))
	for _, l := range liabilities {
		liabilityNames[l.ID] = l.Name
	}
	return assetNames, liabilityNames, nil
}

// transactionLine formats one ledger line. The label falls back from
// category name to description to empty; the bracketed account is omitted
// entirely when the transaction touches no asset or liability. An explicit
// amount sign always wins; otherwise expenses render negative.
func transactionLine(t core.Transaction, categories, assets, liabilities map[int64]string) string {
	cents := t.Amount.Cents
	if cents >= 0 && t.Type != core.Income {
		cents = -cents
	}

	label := ""
	if name, ok := categories[t.CategoryID]; ok && name != "" {
		label = name
	} else if t.Description != "" {
		label = t.Description
	}

	line := t.Date.ISO() + " | " + core.FormatAmount(cents) + " | " + label

	account := ""
	if name, ok := assets[t.AssetID]; ok && t.AssetID != 0 {
		account = name
	} else if name, ok := liabilities[t.LiabilityID]; ok && t.LiabilityID != 0 {
		account = name
	}
	if account != "" {
		line += " [" + account + "]"
	}
	return line
}
