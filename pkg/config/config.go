// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构体
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Model      ModelConfig      `mapstructure:"model"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
	Log        LogConfig        `mapstructure:"log"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// APIConfig API 服务配置
type APIConfig struct {
	Port          int    `mapstructure:"port"`
	MaxUploadSize int64  `mapstructure:"max_upload_size"` // 字节，0 表示默认 20MB
	TempDir       string `mapstructure:"temp_dir"`        // 上传临时目录，空则用系统默认
	GUI           bool   `mapstructure:"gui"`             // 是否挂载上传页面（/）
}

// ModelConfig 模型配置（LLM 增强 + Vision 描述）
type ModelConfig struct {
	LLM    LLMConfig    `mapstructure:"llm"`
	Vision VisionConfig `mapstructure:"vision"`
}

// LLMConfig 增强模型（云端 LLM）配置
type LLMConfig struct {
	Provider          string  `mapstructure:"provider"` // gemini（默认）
	Model             string  `mapstructure:"model"`    // 空则按优先级自动发现
	APIKey            string  `mapstructure:"api_key"`  // 支持 ${ENV_VAR} 占位
	Timeout           string  `mapstructure:"timeout"`  // 如 "30s"
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
	Burst             int     `mapstructure:"burst"`
}

// VisionConfig 描述模型（captioning）配置
type VisionConfig struct {
	Provider string `mapstructure:"provider"` // blip（推理 sidecar）| openai（OpenAI 兼容多模态）
	BaseURL  string `mapstructure:"base_url"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"` // openai provider 用，支持 ${ENV_VAR}
	Device   string `mapstructure:"device"`  // cuda | mps | cpu | auto，仅初始化时下发一次
	Timeout  string `mapstructure:"timeout"`

	// 固定生成参数（进程生命周期内不变，保证可复现）
	MaxLength         int     `mapstructure:"max_length"`
	NumBeams          int     `mapstructure:"num_beams"`
	RepetitionPenalty float64 `mapstructure:"repetition_penalty"`
	NoRepeatNgramSize int     `mapstructure:"no_repeat_ngram_size"`
}

// PipelineConfig 管道默认行为
type PipelineConfig struct {
	Creativity float64 `mapstructure:"creativity"` // 增强温度默认值，[0,1]
}

// SecretsConfig Secret Store 配置
type SecretsConfig struct {
	Provider   string `mapstructure:"provider"` // env（默认）| vault
	VaultAddr  string `mapstructure:"vault_addr"`
	VaultToken string `mapstructure:"vault_token"`
	VaultPath  string `mapstructure:"vault_path"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// TracingConfig 链路追踪配置
type TracingConfig struct {
	Enable         bool   `mapstructure:"enable"`
	ServiceName    string `mapstructure:"service_name"`
	ExportEndpoint string `mapstructure:"export_endpoint"`
	Insecure       bool   `mapstructure:"insecure"`
}

// PrometheusConfig Prometheus 配置
type PrometheusConfig struct {
	Enable bool `mapstructure:"enable"`
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("无法读取配置文件: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}

	replaceEnvVars(&config)

	return &config, nil
}

// replaceEnvVars 替换配置中的 ${ENV_VAR} 形式的 API Key
func replaceEnvVars(config *Config) {
	config.Model.LLM.APIKey = expandEnv(config.Model.LLM.APIKey)
	config.Model.Vision.APIKey = expandEnv(config.Model.Vision.APIKey)
	config.Secrets.VaultToken = expandEnv(config.Secrets.VaultToken)
}

// expandEnv 解析 ${ENV_VAR} / $ENV_VAR 占位；变量未设置时返回空串，
// 让下游的"凭证缺失"分支生效，而不是把占位符当作密钥传下去
func expandEnv(val string) string {
	if !strings.HasPrefix(val, "$") {
		return val
	}
	envVar := strings.TrimPrefix(strings.TrimSuffix(val, "}"), "${")
	envVar = strings.TrimPrefix(envVar, "$")
	return os.Getenv(envVar)
}

// LoadAPIConfig 加载 API 配置（仅 configs/api.yaml）
func LoadAPIConfig() (*Config, error) {
	return LoadConfig("configs/api.yaml")
}

// LoadAPIConfigWithModel 加载 API 配置并合并 model 配置；model.yaml 缺失时沿用 api.yaml 中的 model 段
func LoadAPIConfigWithModel() (*Config, error) {
	cfg, err := LoadConfig("configs/api.yaml")
	if err != nil {
		return nil, err
	}
	modelCfg, err := LoadConfig("configs/model.yaml")
	if err == nil {
		cfg.Model = modelCfg.Model
	}
	return cfg, nil
}

// LoadModelConfig 加载模型配置
func LoadModelConfig() (*Config, error) {
	return LoadConfig("configs/model.yaml")
}
