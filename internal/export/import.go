package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"renewalpulse/internal/services"
)

// RowError reports one rejected line; line numbers are 1-based and include
// the header row, matching what the user sees in a spreadsheet.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Row pairs a parsed payload with its source line so failures later in the
// pipeline can still point at the spreadsheet row.
type Row struct {
	Line  int
	Input *services.SubscriptionInput
}

// headerAliases maps accepted column spellings (english and chinese) to the
// canonical column names. Matching is case-insensitive after trimming.
var headerAliases = map[string]string{
	"name": "name", "service": "name", "名称": "name", "服务": "name", "服务名称": "name",
	"category": "category", "分类": "category", "类别": "category",
	"amount": "amount", "price": "amount", "金额": "amount", "价格": "amount",
	"currency": "currency", "货币": "currency", "币种": "currency",
	"cycle": "cycle", "period": "cycle", "周期": "cycle", "付款周期": "cycle",
	"expires_at": "expires_at", "expires": "expires_at", "expiry": "expires_at",
	"due": "expires_at", "due_date": "expires_at", "到期": "expires_at",
	"到期日": "expires_at", "到期时间": "expires_at",
	"renew_url": "renew_url", "url": "renew_url", "link": "renew_url", "链接": "renew_url", "续费链接": "renew_url",
	"flow": "flow", "type": "flow", "类型": "flow", "收支": "flow",
	"lead_days": "lead_days", "remind_days": "lead_days", "提前天数": "lead_days", "提醒天数": "lead_days",
	"enabled": "enabled", "active": "enabled", "启用": "enabled",
	"notes": "notes", "note": "notes", "备注": "notes",
}

// ReadCSV parses an uploaded CSV into write payloads, tolerating a UTF-8 BOM,
// GB18030 encoded files and aliased headers. Bad lines are collected, never
// fatal; only a missing or unusable header aborts the parse.
func ReadCSV(r io.Reader) ([]Row, []RowError, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read upload: %w", err)
	}
	raw = decodeCharset(raw)

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	columns, ok := resolveHeader(header)
	if !ok {
		return nil, nil, fmt.Errorf("header lacks a usable name column")
	}

	var rows []Row
	var rowErrors []RowError
	line := 1

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Reason: err.Error()})
			continue
		}
		input, err := rowToInput(columns, record)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Reason: err.Error()})
			continue
		}
		rows = append(rows, Row{Line: line, Input: input})
	}
	return rows, rowErrors, nil
}

// decodeCharset strips a UTF-8 BOM and falls back to GB18030 when the bytes
// are not valid UTF-8, covering spreadsheets exported on chinese systems.
func decodeCharset(raw []byte) []byte {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return raw
	}
	decoded, _, err := transform.Bytes(simplifiedchinese.GB18030.NewDecoder(), raw)
	if err != nil {
		return raw
	}
	return decoded
}

func resolveHeader(header []string) (map[int]string, bool) {
	columns := make(map[int]string, len(header))
	hasName := false
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		if canonical, ok := headerAliases[key]; ok {
			columns[i] = canonical
			if canonical == "name" {
				hasName = true
			}
		}
	}
	return columns, hasName
}

func rowToInput(columns map[int]string, record []string) (*services.SubscriptionInput, error) {
	input := &services.SubscriptionInput{}
	for i, value := range record {
		column, ok := columns[i]
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch column {
		case "name":
			input.Name = value
		case "category":
			input.Category = value
		case "amount":
			amount, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
			if err != nil {
				return nil, fmt.Errorf("bad amount %q", value)
			}
			input.Amount = amount
		case "currency":
			input.Currency = value
		case "cycle":
			input.Cycle = value
		case "expires_at":
			input.ExpiresAt = normalizeDateString(value)
		case "renew_url":
			input.RenewURL = value
		case "flow":
			input.Flow = value
		case "lead_days":
			days, err := cast.ToIntE(value)
			if err != nil {
				return nil, fmt.Errorf("bad lead_days %q", value)
			}
			input.LeadDays = &days
		case "enabled":
			enabled, err := cast.ToBoolE(value)
			if err != nil {
				return nil, fmt.Errorf("bad enabled flag %q", value)
			}
			input.Enabled = &enabled
		case "notes":
			input.Notes = value
		}
	}
	if input.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	if input.ExpiresAt == "" {
		return nil, fmt.Errorf("missing expires_at")
	}
	return input, nil
}

// normalizeDateString rewrites the date spellings spreadsheets commonly emit
// (slashes, chinese unit suffixes) into YYYY-MM-DD.
func normalizeDateString(s string) string {
	s = strings.NewReplacer("年", "-", "月", "-", "日", "", "/", "-", ".", "-").Replace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return s
	}
	for i := 1; i < 3; i++ {
		if len(parts[i]) == 1 {
			parts[i] = "0" + parts[i]
		}
	}
	return strings.Join(parts, "-")
}
