package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/samtaute/fotoscapes-widget/internal/model"
)

// Daily 信息流服务下发的每日数据
type Daily struct {
	// Catalog 原始目录数组，保持未解析状态交给 Sanitizer 处理
	Catalog json.RawMessage `json:"items"`
	// Interests 人群级默认兴趣表
	Interests model.DefaultInterestTable `json:"interests"`
}

// Fetcher 从信息流服务拉取每日目录与默认兴趣表
// 带进程内缓存：同一天内的重复 Choose 复用一次拉取结果
type Fetcher struct {
	endpoint   string
	httpClient *http.Client
	ttl        time.Duration

	mu        sync.Mutex
	cached    *Daily
	fetchedAt time.Time
}

// NewFetcher 创建信息流拉取器
func NewFetcher(endpoint string, ttl time.Duration) *Fetcher {
	return &Fetcher{
		endpoint: endpoint,
		ttl:      ttl,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch 返回当日数据，缓存未过期时直接复用
func (f *Fetcher) Fetch(ctx context.Context) (*Daily, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cached != nil && time.Since(f.fetchedAt) < f.ttl {
		return f.cached, nil
	}

	daily, err := f.fetch(ctx)
	if err != nil {
		// 拉取失败时降级复用过期缓存，避免阻断展示
		if f.cached != nil {
			return f.cached, nil
		}
		return nil, err
	}

	f.cached = daily
	f.fetchedAt = time.Now()
	return daily, nil
}

func (f *Fetcher) fetch(ctx context.Context) (*Daily, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", f.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed api error (status %d): %s", resp.StatusCode, string(body))
	}

	var daily Daily
	if err := json.Unmarshal(body, &daily); err != nil {
		return nil, fmt.Errorf("failed to parse feed response: %w", err)
	}

	return &daily, nil
}

// interestsConfig 对应 configs/interests.yaml
type interestsConfig struct {
	Interests model.DefaultInterestTable `yaml:"interests"`
}

// LoadInterestTable 从本地 yaml 文件加载默认兴趣表
// 用于信息流未下发兴趣表、或离线运行的场景
func LoadInterestTable(path string) (model.DefaultInterestTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read interest table file: %w", err)
	}

	var cfg interestsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse interest table: %w", err)
	}

	return cfg.Interests, nil
}
