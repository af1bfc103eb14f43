package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carelink 客户端配置，全部来自环境变量（前缀 CARELINK_）
type Config struct {
	// 后端 REST 服务地址
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:5171"`
	// 反向地理编码服务地址（Nominatim 兼容）
	GeocoderURL string `envconfig:"GEOCODER_URL" default:"https://nominatim.openstreetmap.org"`

	HTTPTimeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	RetryCount    int           `envconfig:"RETRY_COUNT" default:"2"`
	RetryWait     time.Duration `envconfig:"RETRY_WAIT" default:"1s"`
	RetryMaxWait  time.Duration `envconfig:"RETRY_MAX_WAIT" default:"5s"`

	// 查询缓存：新鲜期内命中不回源；超过淘汰期的条目被驱逐
	CacheFreshFor   time.Duration `envconfig:"CACHE_FRESH_FOR" default:"5m"`
	CacheEvictAfter time.Duration `envconfig:"CACHE_EVICT_AFTER" default:"30m"`
	CacheSize       int           `envconfig:"CACHE_SIZE" default:"512"`

	// 可视化控制器是否预取另外两个时间窗口
	Prefetch bool `envconfig:"PREFETCH" default:"true"`

	// 围栏半径写入的防抖间隔
	DebounceInterval time.Duration `envconfig:"DEBOUNCE_INTERVAL" default:"2200ms"`

	// 通知条目的显示时长
	ToastTTL time.Duration `envconfig:"TOAST_TTL" default:"4s"`

	// 凭据文件路径与加密密钥（rememberMe 持久化）
	CredentialFile string `envconfig:"CREDENTIAL_FILE" default:".carelink/credentials"`
	CredentialKey  string `envconfig:"CREDENTIAL_KEY" default:""`

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"json"`
	}
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("carelink", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
