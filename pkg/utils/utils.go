// Package utils 通用小工具，不依赖 internal
package utils

// CoalesceString 返回第一个非空字符串
func CoalesceString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// DefaultInt 若 v 为 0 则返回 defaultVal
func DefaultInt(v, defaultVal int) int {
	if v == 0 {
		return defaultVal
	}
	return v
}

// DefaultFloat 若 v 为 0 则返回 defaultVal
func DefaultFloat(v, defaultVal float64) float64 {
	if v == 0 {
		return defaultVal
	}
	return v
}

// ClampFloat 将 v 限制在 [min, max]
func ClampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
