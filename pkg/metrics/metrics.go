package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// 全局 Registry，供 API 注册与暴露
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		PipelineDuration, PipelineTotal,
		StageDuration, StageFailTotal,
		UploadBytes,
	)
}

// PipelineDuration 管道端到端耗时（秒）
var PipelineDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "captiond_pipeline_duration_seconds",
		Help:    "管道端到端耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"enhanced"}, // true | false
)

// PipelineTotal 管道执行总数（按结果）
var PipelineTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "captiond_pipeline_total",
		Help: "管道执行总数（按结果）",
	},
	[]string{"status"}, // ok | error
)

// StageDuration 阶段耗时（秒）
var StageDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "captiond_stage_duration_seconds",
		Help:    "阶段耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"stage"}, // caption | enhance
)

// StageFailTotal 阶段失败总数（按错误种类，与 StageDuration 配合可算失败率）
var StageFailTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "captiond_stage_fail_total",
		Help: "阶段失败总数（按错误种类）",
	},
	[]string{"stage", "kind"},
)

// UploadBytes 上传图片大小（字节）
var UploadBytes = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "captiond_upload_bytes",
		Help:    "上传图片大小（字节）",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	},
)

// WriteText 以 Prometheus 文本格式输出 DefaultRegistry 的全部指标
func WriteText(w io.Writer) error {
	mfs, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
