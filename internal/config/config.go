// Package config 설정 로딩과 관리 기능을 제공한다
package config

import (
	"time"
)

// Config 애플리케이션 설정 루트 구조
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Search        SearchConfig        `yaml:"search" mapstructure:"search"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Generation    GenerationConfig    `yaml:"generation" mapstructure:"generation"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 애플리케이션 기본 설정
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 서버 상세 설정
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// LLMConfig 업스트림 생성 API 설정
type LLMConfig struct {
	// BaseURL 생성 API 루트 (예: https://generativelanguage.googleapis.com/v1beta)
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Model 모델 이름
	Model string `yaml:"model" mapstructure:"model"`
	// APIKeys 순환 사용할 키 목록. LLM_API_KEYS 환경변수(쉼표 구분)로도 받는다
	APIKeys []string `yaml:"api_keys" mapstructure:"api_keys"`
	// MaxAttempts 키를 바꿔가며 시도할 최대 횟수
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// 생성 파라미터 기본값
	Temperature     float64 `yaml:"temperature" mapstructure:"temperature"`
	TopK            int     `yaml:"top_k" mapstructure:"top_k"`
	TopP            float64 `yaml:"top_p" mapstructure:"top_p"`
	MaxOutputTokens int     `yaml:"max_output_tokens" mapstructure:"max_output_tokens"`
}

// SearchConfig 연관 키워드 검색 연동 설정
type SearchConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	ClientID     string        `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string        `yaml:"client_secret" mapstructure:"client_secret"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// CacheTTL 검색 결과 캐시 유지 시간
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	// MaxKeywords 프롬프트에 주입할 키워드 최대 개수
	MaxKeywords int `yaml:"max_keywords" mapstructure:"max_keywords"`
}

// CacheConfig 캐시 설정
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 설정
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// GenerationConfig 콘텐츠 생성 동작 설정
type GenerationConfig struct {
	// CommentCount Q&A 결과에 포함할 댓글 개수
	CommentCount int `yaml:"comment_count" mapstructure:"comment_count"`
	// HighlightCount 핵심 요약 개수
	HighlightCount int `yaml:"highlight_count" mapstructure:"highlight_count"`
	// ProposalItemLimit 제안서 항목 최대 개수
	ProposalItemLimit int `yaml:"proposal_item_limit" mapstructure:"proposal_item_limit"`
}

// ObservabilityConfig 관측 설정
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 로그 설정
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 추적 설정
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter   string  `yaml:"exporter" mapstructure:"exporter"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 지표 설정
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 보안 설정
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 요청 제한 설정
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int  `yaml:"burst" mapstructure:"burst"`
}

// CORSConfig CORS 설정
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
