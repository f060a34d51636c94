package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/John-Robertt/nftcsv/internal/config"
	"github.com/John-Robertt/nftcsv/internal/domain"
	"github.com/John-Robertt/nftcsv/internal/export"
	"github.com/John-Robertt/nftcsv/internal/ingest"
	"github.com/John-Robertt/nftcsv/internal/normalize"
)

const (
	PhaseIngest    = "ingest"
	PhaseNormalize = "normalize"
	PhaseWrite     = "write"
	PhasePublish   = "publish"
)

// Publisher 是可选的结果发布目标（例如 Redis 缓存）。
type Publisher interface {
	Key() string
	Publish(ctx context.Context, doc []byte) error
}

// PhaseError 标记失败发生在哪个阶段。
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s 阶段失败：%v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// Execute 执行一次完整转换：读取分片 -> 归一化 -> 写出 JSON -> （可选）发布缓存。
//
// 任一阶段失败立即中止并返回 *PhaseError；report 仍会返回（FinishedAt 已填写），
// 其中只包含失败前已完成阶段的信息。pub/obs 均可为 nil。
func Execute(ctx context.Context, eff config.EffectiveConfig, pub Publisher, obs Observer) (domain.RunReport, error) {
	rr := domain.RunReport{
		Output:    eff.Output,
		StartedAt: time.Now().UTC(),
	}
	finish := func(err error) (domain.RunReport, error) {
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr, err
	}

	if obs != nil {
		obs.OnStart(eff)
	}

	started := time.Now()
	rows, parts, err := ingest.ReadParts(eff.Parts)
	if err != nil {
		return finish(&PhaseError{Phase: PhaseIngest, Err: err})
	}
	rr.Parts = parts
	if obs != nil {
		obs.OnPhaseDone(PhaseIngest, map[string]any{
			"parts": len(parts),
			"rows":  len(rows),
		}, time.Since(started))
	}

	started = time.Now()
	records := normalize.All(rows)
	if obs != nil {
		obs.OnPhaseDone(PhaseNormalize, map[string]any{
			"records": len(records),
		}, time.Since(started))
	}

	started = time.Now()
	doc, err := export.WriteFile(eff.Output, records)
	if err != nil {
		return finish(&PhaseError{Phase: PhaseWrite, Err: err})
	}
	rr.Records = len(records)
	if obs != nil {
		obs.OnPhaseDone(PhaseWrite, map[string]any{
			"output": eff.Output,
			"bytes":  len(doc),
		}, time.Since(started))
	}

	if pub != nil {
		started = time.Now()
		if err := pub.Publish(ctx, doc); err != nil {
			return finish(&PhaseError{Phase: PhasePublish, Err: err})
		}
		rr.CacheKey = pub.Key()
		if obs != nil {
			obs.OnPhaseDone(PhasePublish, map[string]any{
				"key":   pub.Key(),
				"bytes": len(doc),
			}, time.Since(started))
		}
	}

	return finish(nil)
}
