package domain

// CSV 列名（以首个分片的表头为准；这里只列出归一化需要读取的列）。
const (
	ColNo              = "No" // 序号：读取但丢弃
	ColTokenID         = "Token ID"
	ColName            = "Name"
	ColImageURL        = "Image URL"
	ColContractAddress = "Contract Address"
)

// RawRow 是一行 CSV 按列名展开后的结果。
//
// 约束：只有该行实际存在的字段才会出现在 map 中；缺失字段由归一化阶段兜底为空串。
type RawRow map[string]string

// Get 读取列值；列不存在时返回空串。
func (r RawRow) Get(col string) string {
	return r[col]
}

// Record 是输出 JSON 数组中的单个元素。
//
// 字段顺序与 JSON key 是前端的兼容契约，不要改动。
type Record struct {
	TokenAddress string   `json:"token_address"`
	TokenID      string   `json:"token_id"`
	Name         string   `json:"name"`
	ImageURL     string   `json:"image_url"`
	Metadata     Metadata `json:"metadata"`
}

// Metadata 复刻常见 NFT API 响应里的 metadata 子对象（name/image 与外层字段镜像）。
type Metadata struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}
