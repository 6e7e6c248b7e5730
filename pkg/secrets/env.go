// Copyright 2026 fanjia1024
// 基于进程环境变量的 secret store

package secrets

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

// envStore 进程环境变量后端；无外部依赖，适合本地开发与单容器部署。
// Set/Delete 仅作用于当前进程，需要跨进程持久化时用 vault
type envStore struct{}

// NewEnvStore 创建环境变量 secret store
func NewEnvStore() Store {
	return &envStore{}
}

// Get 读取环境变量；未设置或为空都视为缺失
func (e *envStore) Get(ctx context.Context, key string) (string, error) {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value, nil
	}
	return "", fmt.Errorf("secret not found in environment: %s", key)
}

func (e *envStore) Set(ctx context.Context, key string, value string) error {
	return os.Setenv(key, value)
}

func (e *envStore) Delete(ctx context.Context, key string) error {
	return os.Unsetenv(key)
}

// List 按前缀过滤环境变量名，输出排序后的稳定结果
func (e *envStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for _, env := range os.Environ() {
		name, _, ok := strings.Cut(env, "=")
		if ok && strings.HasPrefix(name, prefix) {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
