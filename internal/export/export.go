package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/John-Robertt/nftcsv/internal/domain"
	"github.com/John-Robertt/nftcsv/internal/infra/fsx"
)

// Encode 把记录序列化为缩进 2 空格的 JSON 数组。
//
// 不做 HTML 转义；非 ASCII 字符按原样输出（encoding/json 本身不转义非 ASCII）。
// nil 与空切片都输出 []。
func Encode(records []domain.Record) ([]byte, error) {
	if records == nil {
		records = []domain.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("序列化 JSON 失败：%w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile 序列化 records 并整体写入 path，返回写入的文档字节。
func WriteFile(path string, records []domain.Record) ([]byte, error) {
	b, err := Encode(records)
	if err != nil {
		return nil, err
	}
	if err := fsx.WriteFile(path, b); err != nil {
		return nil, fmt.Errorf("写入 %q 失败：%w", path, err)
	}
	return b, nil
}
