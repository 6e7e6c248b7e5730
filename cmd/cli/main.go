package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"caption-platform/internal/app"
	"caption-platform/internal/model/llm"
	"caption-platform/internal/pipeline/caption"
	"caption-platform/pkg/config"
	"caption-platform/pkg/tracing"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}
	_ = godotenv.Load()

	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "version":
		fmt.Println("caption-platform cli 0.1.0")
	case "health":
		runHealth()
	case "config":
		runConfig()
	case "models":
		runModels()
	case "caption":
		runCaption(args)
	case "caption-batch":
		runCaptionBatch(args)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: capctl <command> [args]")
	fmt.Println("  version                 - 显示版本")
	fmt.Println("  health                  - 检查远端 API 健康状态")
	fmt.Println("  config                  - 显示配置概要")
	fmt.Println("  models                  - 列出当前凭证可用的增强模型")
	fmt.Println("  caption <image> [flags] - 生成描述")
	fmt.Println("      --no-enhance        跳过增强阶段，只输出字面描述")
	fmt.Println("      --creativity <0-1>  增强温度（默认 0.8）")
	fmt.Println("      --remote            通过远端 API 处理（默认本地管道）")
	fmt.Println("  caption-batch <images...> - 批量生成字面描述（首个失败即中止）")
}

func runHealth() {
	out, err := healthCheck()
	if err != nil {
		fmt.Fprintf(os.Stderr, "健康检查失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(prettyJSON(out))
}

func runConfig() {
	cfg, err := config.LoadAPIConfigWithModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("api.port=%d\n", cfg.API.Port)
	fmt.Printf("model.llm.provider=%s\n", cfg.Model.LLM.Provider)
	fmt.Printf("model.vision.provider=%s\n", cfg.Model.Vision.Provider)
	fmt.Printf("model.vision.base_url=%s\n", cfg.Model.Vision.BaseURL)
	fmt.Printf("pipeline.creativity=%v\n", cfg.Pipeline.Creativity)
}

func runModels() {
	cfg, err := config.LoadAPIConfigWithModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	apiKey := cfg.Model.LLM.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	client, err := llm.NewClient(cfg.Model.LLM.Provider, cfg.Model.LLM.Model, apiKey, cfg.Model.LLM.Timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建 LLM 客户端失败: %v\n", err)
		os.Exit(1)
	}
	names, err := client.ListModels(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "列出模型失败: %v\n", err)
		os.Exit(1)
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

// captionFlags caption/caption-batch 共用的命令行选项
type captionFlags struct {
	enhance    bool
	creativity float64
	remote     bool
	paths      []string
}

func parseCaptionFlags(args []string) (captionFlags, error) {
	flags := captionFlags{enhance: true, creativity: 0.8}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--no-enhance":
			flags.enhance = false
		case "--remote":
			flags.remote = true
		case "--creativity":
			if i+1 >= len(args) {
				return flags, fmt.Errorf("--creativity 需要一个数值参数")
			}
			v, err := strconv.ParseFloat(args[i+1], 64)
			if err != nil {
				return flags, fmt.Errorf("无效的 creativity 值: %s", args[i+1])
			}
			flags.creativity = v
			i++
		default:
			flags.paths = append(flags.paths, args[i])
		}
	}
	return flags, nil
}

func runCaption(args []string) {
	flags, err := parseCaptionFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if len(flags.paths) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: capctl caption <image> [--no-enhance] [--creativity <0-1>] [--remote]\n")
		os.Exit(1)
	}

	if flags.remote {
		out, err := createCaptionRemote(flags.paths[0], flags.enhance, flags.creativity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "远端处理失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	pipeline := mustBootstrapPipeline()
	result, err := pipeline.Run(context.Background(), flags.paths[0], caption.RunOptions{
		Enhance:    flags.enhance,
		Creativity: flags.creativity,
	})
	if err != nil {
		exitWithPipelineError(err)
	}
	fmt.Println(result)
}

func runCaptionBatch(args []string) {
	flags, err := parseCaptionFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if len(flags.paths) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: capctl caption-batch <images...>\n")
		os.Exit(1)
	}

	pipeline := mustBootstrapPipeline()
	captions, err := pipeline.Captioner().GenerateBatch(context.Background(), flags.paths)
	if err != nil {
		exitWithPipelineError(err)
	}
	for i, text := range captions {
		fmt.Printf("%s\t%s\n", flags.paths[i], text)
	}
}

func mustBootstrapPipeline() *caption.Pipeline {
	cfg, err := config.LoadAPIConfigWithModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	// 本地模式没有 Hertz 服务器，阶段 span 需要自建 tracer
	if cfg.Monitoring.Tracing.Enable && cfg.Monitoring.Tracing.ExportEndpoint != "" {
		if _, terr := tracing.InitTracer(tracing.OTelConfig{
			ServiceName:    "caption-cli",
			ExportEndpoint: cfg.Monitoring.Tracing.ExportEndpoint,
			Insecure:       cfg.Monitoring.Tracing.Insecure,
		}); terr != nil {
			fmt.Fprintf(os.Stderr, "初始化链路追踪失败: %v\n", terr)
		}
	}
	bootstrap, err := app.NewBootstrap(context.Background(), cfg)
	if err != nil {
		exitWithPipelineError(err)
	}
	return bootstrap.Pipeline
}

// exitWithPipelineError 管道错误带 message+details，都要给到终端用户
func exitWithPipelineError(err error) {
	if captionErr, ok := caption.GetError(err); ok {
		fmt.Fprintf(os.Stderr, "错误 [%s]: %s\n", captionErr.Kind, captionErr.Message)
		if captionErr.Details != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", captionErr.Details)
		}
	} else {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
	}
	os.Exit(1)
}
