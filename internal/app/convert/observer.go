package convert

import (
	"time"

	"github.com/John-Robertt/nftcsv/internal/config"
)

// Observer 把阶段进度从核心流程中解耦出来。
//
// convert 包只负责发事件，不做任何输出；展示方式由 CLI 决定。
type Observer interface {
	// OnStart 在 Execute 开始时调用。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段成功结束时调用（ingest/normalize/write/publish）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
}
