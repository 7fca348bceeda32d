package calculator

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"mpoxdash/internal/model"
)

// 检测状态
const (
	AnomalyStatusOK           = "ok"
	AnomalyStatusInsufficient = "insufficient data"
)

// madScale 使 MAD 与正态分布标准差可比
const madScale = 0.6745

var errDegenerateSeries = errors.New("series contains non-finite values")

// AnomalyOptions 异常检测参数
type AnomalyOptions struct {
	MinWeeks    int     // 最少周数，默认 6
	Threshold   float64 // |z| 阈值，默认 3.5
	MaxPoints   int     // 每个国家最多报告的最近异常点，默认 3
	Concurrency int     // 并发国家数，默认 4
}

func (o AnomalyOptions) withDefaults() AnomalyOptions {
	if o.MinWeeks <= 0 {
		o.MinWeeks = 6
	}
	if o.Threshold <= 0 {
		o.Threshold = 3.5
	}
	if o.MaxPoints <= 0 {
		o.MaxPoints = 3
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	return o
}

// DetectAnomalies 基于中位数/MAD 的稳健 z 分数，对周病例水平及环比变化分别检测
// 单个国家失败只标记为数据不足，不影响其他国家；ctx 取消时返回 ctx 错误
func DetectAnomalies(ctx context.Context, series []model.WeeklyPoint, opts AnomalyOptions) ([]model.CountryAnomalies, error) {
	opts = opts.withDefaults()
	byCountry := groupSeries(series)

	countries := make([]string, 0, len(byCountry))
	for c := range byCountry {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	results := make([]model.CountryAnomalies, len(countries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, country := range countries {
		i, country := i, country
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := model.CountryAnomalies{Country: country, Status: AnomalyStatusInsufficient, Points: []model.AnomalyPoint{}}
			points := sortedByWeek(byCountry[country])
			if len(points) >= opts.MinWeeks {
				if flagged, err := detectCountry(points, opts); err == nil {
					res.Status = AnomalyStatusOK
					res.Points = flagged
				}
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func sortedByWeek(points []model.WeeklyPoint) []model.WeeklyPoint {
	out := append([]model.WeeklyPoint(nil), points...)
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out
}

func detectCountry(points []model.WeeklyPoint, opts AnomalyOptions) ([]model.AnomalyPoint, error) {
	levels := make([]float64, len(points))
	changes := make([]float64, len(points))
	for i, p := range points {
		if math.IsNaN(p.Cases) || math.IsInf(p.Cases, 0) {
			return nil, errDegenerateSeries
		}
		levels[i] = p.Cases
		if i > 0 {
			changes[i] = p.Cases - points[i-1].Cases
		}
	}

	levelZ := robustZ(levels)
	changeZ := robustZ(changes)

	flagged := []model.AnomalyPoint{}
	for i, p := range points {
		if math.Abs(levelZ[i]) > opts.Threshold || math.Abs(changeZ[i]) > opts.Threshold {
			flagged = append(flagged, model.AnomalyPoint{
				WeekStart: p.WeekStart,
				Cases:     p.Cases,
				Change:    changes[i],
				LevelZ:    levelZ[i],
				ChangeZ:   changeZ[i],
			})
		}
	}
	if len(flagged) > opts.MaxPoints {
		flagged = flagged[len(flagged)-opts.MaxPoints:]
	}
	return flagged, nil
}

// robustZ 0.6745*(x-median)/MAD；MAD 为 0 时退化为平均绝对偏差，仍为 0 则全部为 0
func robustZ(values []float64) []float64 {
	z := make([]float64, len(values))
	med := *median(values)

	dev := make([]float64, len(values))
	for i, v := range values {
		dev[i] = math.Abs(v - med)
	}
	mad := *median(dev)
	scale := madScale / mad
	if mad == 0 {
		var meanAD float64
		for _, d := range dev {
			meanAD += d
		}
		meanAD /= float64(len(dev))
		if meanAD == 0 {
			return z
		}
		// 1.253314 ≈ sqrt(pi/2)，平均绝对偏差与标准差的换算
		scale = 1 / (1.253314 * meanAD)
	}

	for i, v := range values {
		z[i] = (v - med) * scale
	}
	return z
}
