package domain

import (
	"time"
)

// RunReport 汇总一次转换的结果（CLI 日志与测试使用）。
type RunReport struct {
	Parts  []PartResult `json:"parts"`
	Output string       `json:"output"`

	// Records 是写入输出文件的记录数，恒等于各分片数据行之和。
	Records int `json:"records"`
	// CacheKey 非空表示文档已同步发布到 Redis。
	CacheKey string `json:"cache_key,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// PartResult 描述单个 CSV 分片的读取结果。
type PartResult struct {
	Path      string `json:"path"`
	HasHeader bool   `json:"has_header"`
	Rows      int    `json:"rows"`
}

// Finalize 统一时间为 UTC（确保 JSON 为 RFC3339 且后缀 Z）。
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()
}

// TotalRows 返回各分片数据行之和。
func (r RunReport) TotalRows() int {
	n := 0
	for _, p := range r.Parts {
		n += p.Rows
	}
	return n
}
