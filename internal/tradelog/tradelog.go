package tradelog

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"post-market-analysis/internal/types"
)

const (
	Separator  = "|"
	FieldCount = 11

	maxLineBytes = 1 << 20
)

// Column positions of a trade line.
const (
	colTimestamp = iota
	colDescription
	colTradeParity
	colQty
	colParityWas
	colOpnCls
	colOrdNumL1
	colOrdNumL2
	colOrdNumL3
	colOrdNumL4
	colM2M
)

var columnNames = [FieldCount]string{
	"Timestamp", "Description", "TRDPARITY", "QTY", "ParityWas",
	"OpnCls", "OrdNumL1", "OrdNumL2", "OrdNumL3", "OrdNumL4", "M2M",
}

// Result is the output of parsing one trade log.
type Result struct {
	Records      []types.TradeRecord
	SkippedLines int // lines without a separator
}

// Parse parses a whole trade log held in memory.
func Parse(data []byte) (*Result, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader parses a trade log line by line. Lines without a pipe are
// counted and skipped; any other malformed line aborts the parse.
func ParseReader(r io.Reader) (*Result, error) {
	res := &Result{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if !strings.Contains(line, Separator) {
			res.SkippedLines++
			continue
		}
		rec, err := parseLine(lineNo, line)
		if err != nil {
			return nil, err
		}
		res.Records = append(res.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func parseLine(lineNo int, line string) (types.TradeRecord, error) {
	fields := strings.Split(line, Separator)
	if len(fields) != FieldCount {
		return types.TradeRecord{}, &SchemaMismatchError{Line: lineNo, Fields: len(fields)}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	rec := types.TradeRecord{
		Line:      lineNo,
		Timestamp: fields[colTimestamp],
		Portfolio: strings.TrimPrefix(fields[colDescription], columnNames[colDescription]+":"),
	}

	tradeParity, err := intField(lineNo, fields, colTradeParity)
	if err != nil {
		return rec, err
	}
	qty, err := intField(lineNo, fields, colQty)
	if err != nil {
		return rec, err
	}
	parityWas, err := intField(lineNo, fields, colParityWas)
	if err != nil {
		return rec, err
	}
	opnCls, err := intField(lineNo, fields, colOpnCls)
	if err != nil {
		return rec, err
	}

	rec.TradeParity = decimal.New(tradeParity, -2)
	rec.Quantity = qty
	rec.ParityAsked = decimal.New(parityWas, -2)
	rec.OpenClose = types.Leg(opnCls)
	return rec, nil
}

// intField strips the "<Column>:" prefix of a scalar field and parses the rest.
func intField(lineNo int, fields []string, col int) (int64, error) {
	name := columnNames[col]
	raw := fields[col]
	value, ok := strings.CutPrefix(raw, name+":")
	if !ok {
		return 0, &MalformedFieldError{Line: lineNo, Column: name, Value: raw, Reason: "missing " + name + ": prefix"}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, &MalformedFieldError{Line: lineNo, Column: name, Value: raw, Reason: "not an integer"}
	}
	return n, nil
}

// ExcludeParityAsked drops records quoted at the sentinel price and returns
// the kept records with the number dropped.
func ExcludeParityAsked(records []types.TradeRecord, sentinel decimal.Decimal) ([]types.TradeRecord, int) {
	kept := make([]types.TradeRecord, 0, len(records))
	for _, rec := range records {
		if rec.ParityAsked.Equal(sentinel) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept, len(records) - len(kept)
}
