// Package gsheet mirrors the ledger and drift reports into a Google
// Spreadsheet for people who live in their sheet.
package gsheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"moneta/internal/core"
	"moneta/internal/ledger"
)

type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	ledgerSheet   string
	driftSheet    string
}

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, ledgerSheet, driftSheet string) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	if strings.TrimSpace(ledgerSheet) == "" {
		ledgerSheet = "Ledger"
	}
	if strings.TrimSpace(driftSheet) == "" {
		driftSheet = "Drift"
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
		driftSheet:    driftSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*sheets.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	svc, err := sheets.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// AppendTransaction appends one transaction row to the ledger sheet.
func (c *Client) AppendTransaction(ctx context.Context, t core.Transaction) error {
	vr := &sheets.ValueRange{Values: [][]any{{
		t.Date.String(),
		string(t.Type),
		core.FormatCents(t.SignedCents()),
		t.CategoryID,
		t.WalletID,
		t.Description,
	}}}

	rng := fmt.Sprintf("%s!A:F", c.ledgerSheet)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append transaction row: %w", err)
	}
	return nil
}

// WriteDriftReport replaces the drift sheet contents with the given report.
func (c *Client) WriteDriftReport(ctx context.Context, report ledger.Report) error {
	values := [][]any{{"Wallet", "Stored", "Computed", "Difference", "In sync"}}
	for _, w := range report.Wallets {
		values = append(values, []any{
			w.WalletName,
			core.FormatCents(w.StoredCents),
			core.FormatCents(w.ComputedCents),
			core.FormatCents(w.DifferenceCents),
			w.InSync,
		})
	}
	for _, o := range report.Orphans {
		values = append(values, []any{
			fmt.Sprintf("orphan:%s", o.WalletID),
			"",
			core.FormatCents(o.NetCents),
			"",
			false,
		})
	}

	clearRng := fmt.Sprintf("%s!A:E", c.driftSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear drift sheet: %w", err)
	}

	vr := &sheets.ValueRange{Values: values}
	writeRng := fmt.Sprintf("%s!A1", c.driftSheet)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("write drift report: %w", err)
	}
	return nil
}
