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

package caption

import "strings"

// 远端服务不暴露结构化错误时按报文子串分类。尽力而为：上游措辞一旦变化，
// 未命中的失败会落入兜底种类，不会泄漏原始错误类型。

var (
	memoryIndicators = []string{
		"out of memory",
		"cuda out of memory",
		"oom",
		"insufficient memory",
	}
	authIndicators = []string{
		"api_key",
		"api key",
		"403",
		"unauthorized",
		"permission denied",
	}
	quotaIndicators = []string{
		"quota",
		"429",
		"rate limit",
		"resource exhausted",
	}
	networkIndicators = []string{
		"network",
		"connection",
		"timeout",
		"deadline exceeded",
		"no such host",
	}
)

func containsAny(msg string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(msg, ind) {
			return true
		}
	}
	return false
}

// classifyCaptionFailure 将 captioning 底层失败收敛到封闭种类。
// 显存/资源耗尽优先，其余兜底为 KindCaptionGenerationFailed。
func classifyCaptionFailure(err error) *Error {
	if captionErr, ok := GetError(err); ok {
		return captionErr
	}

	msg := strings.ToLower(err.Error())
	if containsAny(msg, memoryIndicators) {
		return WrapError(KindResourceLimitExceeded,
			"模型推理因显存限制失败，请尝试更小的图片或更小的模型", err)
	}
	return WrapError(KindCaptionGenerationFailed, "caption generation failed", err)
}

// classifyEnhanceFailure 将增强底层失败收敛到封闭种类。
// 判定优先级固定：凭证 → 配额 → 网络 → 兜底
func classifyEnhanceFailure(err error) *Error {
	if captionErr, ok := GetError(err); ok {
		return captionErr
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, authIndicators):
		return WrapError(KindAPIConfigurationError, "Gemini API Key 无效", err)
	case containsAny(msg, quotaIndicators):
		return WrapError(KindResourceLimitExceeded, "Gemini API 配额已耗尽", err)
	case containsAny(msg, networkIndicators):
		return WrapError(KindModelNetworkError, "请检查网络连接", err)
	default:
		return WrapError(KindEnhancementFailed, "enhancement failed", err)
	}
}
