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

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

func apiBaseURL() string {
	if u := os.Getenv("CAPTION_API_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func newClient() *resty.Client {
	return resty.New().
		SetBaseURL(apiBaseURL()).
		SetTimeout(5 * time.Minute)
}

func healthCheck() (map[string]interface{}, error) {
	var out map[string]interface{}
	resp, err := newClient().R().
		SetResult(&out).
		Get("/api/health")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GET /api/health: %s", resp.String())
	}
	return out, nil
}

func createCaptionRemote(path string, enhance bool, creativity float64) (string, error) {
	var out struct {
		Caption string `json:"caption"`
	}
	var apiErr struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	resp, err := newClient().R().
		SetFile("file", path).
		SetFormData(map[string]string{
			"enhance":    strconv.FormatBool(enhance),
			"creativity": strconv.FormatFloat(creativity, 'f', -1, 64),
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/captions")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		if apiErr.Error != "" {
			if apiErr.Details != "" {
				return "", fmt.Errorf("%s (%s)", apiErr.Error, apiErr.Details)
			}
			return "", fmt.Errorf("%s", apiErr.Error)
		}
		return "", fmt.Errorf("POST /api/captions: %s", resp.String())
	}
	return out.Caption, nil
}

func prettyJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
