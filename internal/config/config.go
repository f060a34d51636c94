package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// ErrCodeNotFound 表示 --config 指定的配置文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件/.env 无法读取或解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// FileName 是 cwd 下自动发现的配置文件名（可选）。
	FileName = "nftcsv.json"
	// EnvFileName 是 cwd 下自动加载的 .env 文件名（可选）。
	EnvFileName = ".env"

	DefaultOutput       = "static/data/genesis_nfts.json"
	DefaultLogLevel     = "info"
	DefaultRedisTimeout = 5 * time.Second
)

// 非文件来源在 Error.Path 中的标记。
const (
	SourceCLI      = "<命令行参数>"
	SourceEnvParts = "<环境变量 " + EnvParts + ">"
	SourceDefault  = "<内置默认>"
)

// 环境变量名。
const (
	EnvParts         = "NFTCSV_PARTS" // 逗号分隔
	EnvOutput        = "NFTCSV_OUTPUT"
	EnvLogLevel      = "NFTCSV_LOG_LEVEL"
	EnvRedisAddr     = "NFTCSV_REDIS_ADDR"
	EnvRedisPassword = "NFTCSV_REDIS_PASSWORD"
	EnvRedisKey      = "NFTCSV_REDIS_KEY"
)

// DefaultParts 是内置的四个分片路径（相对 cwd），首个分片带表头。
func DefaultParts() []string {
	return []string{
		"static/data/genesis_part1.csv",
		"static/data/genesis_part2.csv",
		"static/data/genesis_part3.csv",
		"static/data/genesis_part4.csv",
	}
}

// CLIArgs 是命令行暴露的入口；空值表示未指定。
type CLIArgs struct {
	ConfigPath string
	Parts      []string
	Output     string
}

// FileConfig 对应 nftcsv.json 的解析结构。
type FileConfig struct {
	Parts    []string     `json:"parts"`
	Output   string       `json:"output"`
	LogLevel string       `json:"log_level"`
	Redis    *RedisConfig `json:"redis"`
}

type RedisConfig struct {
	Addr           string `json:"addr"`
	Password       string `json:"password"`
	DB             int    `json:"db"`
	Key            string `json:"key"`
	TTLSeconds     int    `json:"ttl_seconds"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// EffectiveConfig 是合并并规范化后的最终配置；路径均为 clean + absolute。
type EffectiveConfig struct {
	Parts    []string
	Output   string
	LogLevel string
	Redis    RedisSettings
}

type RedisSettings struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration // 0 表示不过期
	Timeout  time.Duration
}

// Enabled 报告是否需要把结果发布到 Redis。
func (r RedisSettings) Enabled() bool {
	return r.Addr != ""
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取配置文件与环境变量，并与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// - CLI 给了 --config：该文件必须存在
// - 否则尝试 <cwd>/nftcsv.json（可选）
// - <cwd>/.env 可选；进程环境变量优先于 .env 中的同名项
//
// 覆盖优先级：CLI > 环境变量 > 配置文件 > 内置默认。相对路径均以 cwd 为基准。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	var (
		cfgPath string
		fc      FileConfig
	)
	if strings.TrimSpace(cli.ConfigPath) != "" {
		cfgPath = absCleanFrom(cwdAbs, cli.ConfigPath)
		var exists bool
		fc, exists, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		if !exists {
			return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
		}
	} else {
		cfgPath = filepath.Join(cwdAbs, FileName)
		fc, _, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
	}

	envPath := filepath.Join(cwdAbs, EnvFileName)
	env, err := readEnv(envPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: envPath, Err: err}
	}

	return merge(cwdAbs, cli, env, fc, cfgPath)
}

func merge(cwdAbs string, cli CLIArgs, env map[string]string, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	// parts：CLI > env > config > 默认；partsSrc 用于错误定位到真实来源。
	parts := DefaultParts()
	partsSrc := SourceDefault
	switch {
	case len(cli.Parts) > 0:
		parts, partsSrc = cli.Parts, SourceCLI
	case env[EnvParts] != "":
		parts, partsSrc = splitList(env[EnvParts]), SourceEnvParts
	case len(fc.Parts) > 0:
		parts, partsSrc = fc.Parts, cfgPath
	}
	absParts := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: partsSrc, Err: fmt.Errorf("parts 中存在空路径")}
		}
		absParts = append(absParts, absCleanFrom(cwdAbs, p))
	}
	if len(absParts) == 0 {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: partsSrc, Err: fmt.Errorf("parts 不能为空")}
	}

	output := firstNonEmpty(cli.Output, env[EnvOutput], fc.Output, DefaultOutput)

	logLevel := strings.ToLower(firstNonEmpty(env[EnvLogLevel], fc.LogLevel, DefaultLogLevel))
	if err := validateLogLevel(logLevel); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	redis, err := mergeRedis(env, fc.Redis)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return EffectiveConfig{
		Parts:    absParts,
		Output:   absCleanFrom(cwdAbs, output),
		LogLevel: logLevel,
		Redis:    redis,
	}, nil
}

func mergeRedis(env map[string]string, rc *RedisConfig) (RedisSettings, error) {
	var fc RedisConfig
	if rc != nil {
		fc = *rc
	}

	rs := RedisSettings{
		Addr:     firstNonEmpty(env[EnvRedisAddr], fc.Addr),
		Password: firstNonEmpty(env[EnvRedisPassword], fc.Password),
		DB:       fc.DB,
		Key:      firstNonEmpty(env[EnvRedisKey], fc.Key),
		Timeout:  DefaultRedisTimeout,
	}

	if fc.DB < 0 {
		return RedisSettings{}, fmt.Errorf("redis.db 不能为负数：%d", fc.DB)
	}
	if fc.TTLSeconds < 0 {
		return RedisSettings{}, fmt.Errorf("redis.ttl_seconds 不能为负数：%d", fc.TTLSeconds)
	}
	if fc.TimeoutSeconds < 0 {
		return RedisSettings{}, fmt.Errorf("redis.timeout_seconds 不能为负数：%d", fc.TimeoutSeconds)
	}
	rs.TTL = time.Duration(fc.TTLSeconds) * time.Second
	if fc.TimeoutSeconds > 0 {
		rs.Timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}

	if rs.Addr != "" && rs.Key == "" {
		return RedisSettings{}, fmt.Errorf("已配置 redis.addr 但 redis.key 为空")
	}
	return rs, nil
}

func validateLogLevel(l string) error {
	switch l {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log_level 只能是 debug|info|warn|error，实际是 %q", l)
	}
}

// readEnv 合并 .env 与进程环境变量（进程环境优先），只保留本工具关心的键。
func readEnv(envPath string) (map[string]string, error) {
	out := map[string]string{}
	fileEnv, err := godotenv.Read(envPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for _, k := range []string{EnvParts, EnvOutput, EnvLogLevel, EnvRedisAddr, EnvRedisPassword, EnvRedisKey} {
		if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
			out[k] = strings.TrimSpace(v)
			continue
		}
		if v := strings.TrimSpace(fileEnv[k]); v != "" {
			out[k] = v
		}
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, x := range strings.Split(s, ",") {
		x = strings.TrimSpace(x)
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
