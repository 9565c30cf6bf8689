package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"github.com/YuminosukeSato/housepriceai/pkg/errors"
)

// Record は列名からセル値への対応
type Record map[string]Value

// Get は列の値を返す。存在しない列は欠損として扱う。
func (r Record) Get(column string) Value {
	if r == nil {
		return MissingValue()
	}
	return r[column]
}

// Dataset は読み込んだ表データ
// Columns はヘッダの順序であり、スキーマを定義する。
type Dataset struct {
	Columns []string
	Records []Record
}

// Len はレコード数を返す
func (d Dataset) Len() int { return len(d.Records) }

// HasColumn は列がスキーマに含まれるかどうかを返す
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Head は先頭 n 件のレコードを持つ Dataset を返す（レコードは共有される）
func (d Dataset) Head(n int) Dataset {
	if n < 0 {
		n = 0
	}
	if n > len(d.Records) {
		n = len(d.Records)
	}
	return Dataset{Columns: d.Columns, Records: d.Records[:n]}
}

// UniqueStrings は列に現れる空でない値の文字列表現を重複なしで昇順に返す
func (d Dataset) UniqueStrings(column string) []string {
	seen := make(map[string]struct{})
	for _, r := range d.Records {
		v := r.Get(column)
		if v.IsEmpty() {
			continue
		}
		seen[v.String()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ReadCSV はヘッダ行付きの CSV を読み込む
//
// 空行は読み飛ばし、各セルは Parse で型付けする。
// 行の長さがヘッダと異なっても受け付け、不足するセルは欠損になり、余分なセルは捨てる。
// ヘッダのみ、または入力が空の場合は ErrEmptyData を返す。
func ReadCSV(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Dataset{}, errors.Wrap(errors.ErrEmptyData, "csv has no header row")
	}
	if err != nil {
		return Dataset{}, errors.Wrap(err, "failed to read CSV header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		if _, dup := seen[name]; dup {
			return Dataset{}, errors.NewValidationError("header", "duplicate column name", name)
		}
		seen[name] = struct{}{}
		columns[i] = name
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, errors.Wrap(err, "failed to read CSV record")
		}
		rec := make(Record, len(columns))
		for i, name := range columns {
			if i < len(row) {
				rec[name] = Parse(row[i])
			} else {
				rec[name] = MissingValue()
			}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return Dataset{}, errors.Wrap(errors.ErrEmptyData, "csv has no data rows")
	}
	return Dataset{Columns: columns, Records: records}, nil
}
