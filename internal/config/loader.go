// Package config 설정 로딩 기능을 제공한다
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load 설정 파일을 불러온다
// 우선순위: 기본 설정 -> 환경별 설정 -> 환경변수
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 기본 설정 로드
	if err := loadConfigFile(v, "configs/config.yaml", true); err != nil {
		return nil, err
	}

	// 2. 환경별 설정 로드
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := fmt.Sprintf("configs/config.%s.yaml", env)
	if err := loadConfigFile(v, envFile, true); err != nil {
		return nil, err
	}

	// 3. 환경변수 바인딩 (직접 덮어쓰기)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 기본값 설정 (최후 수단)
	setDefaults(v)

	// 설정 파싱
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// LLM_API_KEYS 환경변수(쉼표 구분)가 있으면 키 목록을 덮어쓴다
	if raw := os.Getenv("LLM_API_KEYS"); raw != "" {
		cfg.LLM.APIKeys = splitKeys(raw)
	}

	return &cfg, nil
}

// loadConfigFile 파일을 읽어 환경변수 치환 후 viper 에 적재한다
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// 환경변수 치환 수행
	expanded := expandEnv(string(content))

	// viper 에 적재
	reader := strings.NewReader(expanded)
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		// 이후 ReadInConfig 오류 방지를 위해 수동으로 파일을 표시한다
		v.SetConfigFile(path)
	} else {
		if err := v.MergeConfig(reader); err != nil {
			return fmt.Errorf("failed to merge processed config %s: %w", path, err)
		}
	}

	return nil
}

// expandEnv 문자열 내 ${VAR:default} 자리표시자를 치환한다
func expandEnv(s string) string {
	// ${VAR} 또는 ${VAR:default} 매칭
	re := regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		submatch := re.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		val, ok := os.LookupEnv(key)
		if ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		return match
	})
}

// splitKeys 쉼표로 구분된 키 문자열을 정리해 목록으로 만든다
func splitKeys(raw string) []string {
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// MustLoad 설정을 불러오고 실패 시 panic 한다
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// setDefaults 설정 기본값을 지정한다
func setDefaults(v *viper.Viper) {
	// 애플리케이션 기본값
	v.SetDefault("app.name", "insu-copy-ai-api")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	// HTTP 서버 기본값
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", "30s")
	// 스트리밍 응답이 길어질 수 있어 쓰기 타임아웃은 넉넉히 잡는다
	v.SetDefault("server.http.write_timeout", "300s")
	v.SetDefault("server.http.idle_timeout", "120s")

	// LLM 기본값
	v.SetDefault("llm.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.max_attempts", 3)
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("llm.temperature", 0.9)
	v.SetDefault("llm.top_k", 40)
	v.SetDefault("llm.top_p", 0.95)
	v.SetDefault("llm.max_output_tokens", 8192)

	// 검색 연동 기본값
	v.SetDefault("search.enabled", false)
	v.SetDefault("search.base_url", "https://openapi.naver.com/v1/search")
	v.SetDefault("search.timeout", "5s")
	v.SetDefault("search.cache_ttl", "10m")
	v.SetDefault("search.max_keywords", 5)

	// Redis 기본값
	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 100)
	v.SetDefault("cache.redis.min_idle_conns", 10)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	// 생성 동작 기본값
	v.SetDefault("generation.comment_count", 3)
	v.SetDefault("generation.highlight_count", 3)
	v.SetDefault("generation.proposal_item_limit", 8)

	// 관측 기본값
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.logging.output", "stdout")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.exporter", "otlp")
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 보안 기본값
	v.SetDefault("security.rate_limit.enabled", false)
	v.SetDefault("security.rate_limit.requests_per_second", 30)
	v.SetDefault("security.rate_limit.burst", 60)
}
