package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/John-Robertt/nftcsv/internal/domain"
)

var (
	// ErrNoParts 表示调用方没有提供任何分片路径。
	ErrNoParts = errors.New("未提供任何 CSV 分片")
	// ErrMissingHeader 表示首个分片为空（连表头行都没有）。
	ErrMissingHeader = errors.New("首个分片缺少表头")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileError 表示分片文件无法打开或读取（不存在、无权限、I/O 失败）。
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("读取 CSV 分片失败：%q：%v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// DecodeError 表示分片内容不是合法的 UTF-8 文本。
type DecodeError struct {
	Path   string
	Offset int // 第一个非法字节的偏移
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("CSV 分片不是合法的 UTF-8：%q（字节偏移 %d）", e.Path, e.Offset)
}

// ParseError 表示 CSV 结构无法解析（例如引号未闭合）。
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("解析 CSV 分片失败：%q：%v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadParts 按给定顺序读取全部分片，返回拼接后的原始行。
//
// 规则（固定）：
// - paths[0] 必须带表头，表头即全部分片共用的列名
// - 其余分片没有表头，逐行按位置映射到上述列名
// - 任一分片失败即整体失败，不返回部分结果
func ReadParts(paths []string) ([]domain.RawRow, []domain.PartResult, error) {
	if len(paths) == 0 {
		return nil, nil, ErrNoParts
	}

	columns, first, err := ReadHeaderPart(paths[0])
	if err != nil {
		return nil, nil, err
	}

	parts := make([]domain.PartResult, 0, len(paths))
	parts = append(parts, domain.PartResult{Path: paths[0], HasHeader: true, Rows: len(first)})

	all := make([]domain.RawRow, 0, len(first)*len(paths))
	all = append(all, first...)

	for _, p := range paths[1:] {
		rows, err := ReadPart(p, columns)
		if err != nil {
			return nil, nil, err
		}
		parts = append(parts, domain.PartResult{Path: p, Rows: len(rows)})
		all = append(all, rows...)
	}
	return all, parts, nil
}

// ReadHeaderPart 读取带表头的分片，返回列名与数据行。
func ReadHeaderPart(path string) ([]string, []domain.RawRow, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, &ParseError{Path: path, Err: ErrMissingHeader}
	}
	columns := append([]string(nil), records[0]...)
	return columns, zipRows(columns, records[1:]), nil
}

// ReadPart 读取无表头的分片，按 columns 的位置展开每一行。
//
// 字段数不一致时：缺少的尾部字段不出现在 RawRow 中（归一化时视为空串），多出的字段丢弃。
func ReadPart(path string, columns []string) ([]domain.RawRow, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	return zipRows(columns, records), nil
}

func zipRows(columns []string, records [][]string) []domain.RawRow {
	rows := make([]domain.RawRow, 0, len(records))
	for _, rec := range records {
		row := make(domain.RawRow, len(columns))
		for i, col := range columns {
			if i >= len(rec) {
				break
			}
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func readRecords(path string) ([][]string, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if off := invalidUTF8Offset(b); off >= 0 {
		return nil, &DecodeError{Path: path, Offset: off}
	}
	// Excel 导出的 CSV 常带 BOM；不剥离的话首列名会变成 "\ufeffNo"。
	b = bytes.TrimPrefix(b, utf8BOM)

	r := csv.NewReader(bytes.NewReader(b))
	// 字段数允许不一致；引号必须规范，否则整体失败（避免错位吞掉分隔符）。
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return records, nil
}

// readFile 打开、读完并关闭单个分片；无论成功与否句柄都会释放。
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return b, nil
}

func invalidUTF8Offset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
