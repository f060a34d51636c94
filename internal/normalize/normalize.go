package normalize

import (
	"strings"

	"github.com/John-Robertt/nftcsv/internal/domain"
)

// Record 把一行原始 CSV 映射为输出记录。
//
// 只有合约地址做小写化；其余字段原样透传，缺失列一律为空串。
// 不做过滤、不校验 token id 或地址格式。
func Record(row domain.RawRow) domain.Record {
	name := row.Get(domain.ColName)
	image := row.Get(domain.ColImageURL)
	return domain.Record{
		TokenAddress: Address(row.Get(domain.ColContractAddress)),
		TokenID:      row.Get(domain.ColTokenID),
		Name:         name,
		ImageURL:     image,
		Metadata: domain.Metadata{
			Name:  name,
			Image: image,
		},
	}
}

// All 逐行归一化并保持输入顺序；返回值永不为 nil（空输入序列化为 []）。
func All(rows []domain.RawRow) []domain.Record {
	out := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Record(r))
	}
	return out
}

// Address 规范化合约地址（幂等）。
func Address(s string) string {
	return strings.ToLower(s)
}
