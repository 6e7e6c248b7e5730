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

package http

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
)

// Router HTTP 路由器
type Router struct {
	handler *Handler
	gui     bool
}

// NewRouter 创建新的路由器
func NewRouter(handler *Handler) *Router {
	return &Router{handler: handler, gui: true}
}

// SetGUI 是否注册内置上传页面
func (r *Router) SetGUI(enable bool) { r.gui = enable }

// Build 构建 Hertz 服务器并注册路由
func (r *Router) Build(addr string, opts ...config.Option) *server.Hertz {
	serverOpts := append([]config.Option{server.WithHostPorts(addr)}, opts...)
	h := server.New(serverOpts...)

	if r.gui {
		h.GET("/", r.handler.GUI)
	}

	api := h.Group("/api")
	{
		api.GET("/health", r.handler.HealthCheck)
		api.POST("/captions", r.handler.CreateCaption)

		system := api.Group("/system")
		{
			system.GET("/status", r.handler.SystemStatus)
			system.GET("/metrics", r.handler.SystemMetrics)
		}
	}

	return h
}
