package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ivywsw555/JustStart/models"
)

// HTTPRemoteStore 远端文档存储的 HTTP 客户端实现，对接本仓库的文档接口
// 身份来自令牌，RemoteStore 接口里的 path 参数仅作日志标识
type HTTPRemoteStore struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPRemoteStore 创建远端存储客户端
func NewHTTPRemoteStore(baseURL, token string) *HTTPRemoteStore {
	return &HTTPRemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Get 下载用户文档，文档尚不存在时返回 (nil, nil)
func (r *HTTPRemoteStore) Get(ctx context.Context, path string) (*models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/v1/doc", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("下载文档失败: %s", resp.Status)
	}

	var body models.DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("文档响应解析失败: %w", err)
	}
	doc, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Put 整文档上传，后到者胜
func (r *HTTPRemoteStore) Put(ctx context.Context, path string, doc models.Document) error {
	tasksJSON, err := json.Marshal(doc.Tasks)
	if err != nil {
		return err
	}
	historyJSON, err := json.Marshal(doc.History)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(models.PutDocumentRequest{
		Tasks:   tasksJSON,
		History: historyJSON,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.baseURL+"/api/v1/doc", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", r.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("上传文档失败: %s", resp.Status)
	}
	return nil
}

// Subscribe 通过 SSE 订阅文档变更，每条消息携带完整文档
func (r *HTTPRemoteStore) Subscribe(ctx context.Context, path string, onChange func(models.Document)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(subCtx, http.MethodGet, r.baseURL+"/api/v1/doc/subscribe", nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Authorization", r.token)
	req.Header.Set("Accept", "text/event-stream")

	// 订阅连接要长期保持，不能套用普通请求的超时
	streamClient := &http.Client{}
	resp, err := streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("订阅文档变更失败: %s", resp.Status)
	}

	go func() {
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var body models.DocumentResponse
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &body); err != nil {
				continue
			}
			doc, err := decodeDocument(body)
			if err != nil {
				continue
			}
			onChange(doc)
		}
	}()

	return cancel, nil
}

// decodeDocument 把文档响应里的原始 JSON 还原为状态文档
func decodeDocument(body models.DocumentResponse) (models.Document, error) {
	doc := models.NewDocument()
	if len(body.Tasks) > 0 {
		if err := json.Unmarshal(body.Tasks, &doc.Tasks); err != nil {
			return doc, fmt.Errorf("任务数据解析失败: %w", err)
		}
	}
	if len(body.History) > 0 {
		if err := json.Unmarshal(body.History, &doc.History); err != nil {
			return doc, fmt.Errorf("历史数据解析失败: %w", err)
		}
	}
	doc.Normalize()
	return doc, nil
}
