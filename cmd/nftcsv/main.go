package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/John-Robertt/nftcsv/internal/app/convert"
	"github.com/John-Robertt/nftcsv/internal/config"
	"github.com/John-Robertt/nftcsv/internal/infra/redisx"
	"github.com/John-Robertt/nftcsv/internal/logx"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage(os.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		if code := convertCmd(args[1:], os.Stdout, os.Stderr); code != 0 {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage(os.Stderr)
		os.Exit(2)
	}
}

func convertCmd(args []string, stdout, stderr io.Writer) int {
	for _, a := range args {
		if isHelp(a) {
			printConvertUsage(stdout)
			return 0
		}
	}

	cli, err := parseConvertArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "参数错误：%v\n\n", err)
		printConvertUsage(stderr)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, cli)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	log := logx.New(stderr, eff.LogLevel, isTTYWriter(stderr))

	var pub convert.Publisher
	rp, err := redisx.FromConfig(eff.Redis)
	if err != nil {
		log.Error().Err(err).Msg("初始化 redis 失败")
		return 1
	}
	if rp != nil {
		defer rp.Close()
		pub = rp
	}

	rr, err := convert.Execute(context.Background(), eff, pub, logObserver{log: log})
	if err != nil {
		log.Error().Err(err).Msg("转换失败")
		return 1
	}

	fmt.Fprintf(stdout, "完成：已写入 %s，共 %d 条\n", rr.Output, rr.Records)
	return 0
}

// parseConvertArgs 解析 convert 子命令参数：位置参数依次为分片路径（首个带表头）。
func parseConvertArgs(args []string) (config.CLIArgs, error) {
	var cli config.CLIArgs

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--out" || a == "--config":
			if i+1 >= len(args) {
				return config.CLIArgs{}, fmt.Errorf("%s 需要一个值", a)
			}
			i++
			if err := setFlag(&cli, a, args[i]); err != nil {
				return config.CLIArgs{}, err
			}
		case strings.HasPrefix(a, "--out="):
			if err := setFlag(&cli, "--out", strings.TrimPrefix(a, "--out=")); err != nil {
				return config.CLIArgs{}, err
			}
		case strings.HasPrefix(a, "--config="):
			if err := setFlag(&cli, "--config", strings.TrimPrefix(a, "--config=")); err != nil {
				return config.CLIArgs{}, err
			}
		case strings.HasPrefix(a, "-"):
			return config.CLIArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			cli.Parts = append(cli.Parts, a)
		}
	}
	return cli, nil
}

func setFlag(cli *config.CLIArgs, name, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s 不能为空", name)
	}
	switch name {
	case "--out":
		if cli.Output != "" {
			return fmt.Errorf("重复的 --out：%q 与 %q", cli.Output, v)
		}
		cli.Output = v
	case "--config":
		if cli.ConfigPath != "" {
			return fmt.Errorf("重复的 --config：%q 与 %q", cli.ConfigPath, v)
		}
		cli.ConfigPath = v
	}
	return nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  nftcsv convert [part1.csv part2.csv ...] [--out path] [--config path]

命令：
  convert    把 CSV 分片合并并转换为前端使用的 JSON 数组

使用 "nftcsv convert --help" 查看详细说明。
`)
}

func printConvertUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  nftcsv convert [part1.csv part2.csv ...] [--out path] [--config path]

参数：
  part...     分片路径，首个分片必须带表头（未指定则读配置/环境变量；默认 static/data/genesis_part1..4.csv）
  --out       输出 JSON 路径（默认 static/data/genesis_nfts.json）
  --config    配置文件路径（默认尝试 ./nftcsv.json）
  -h, --help  显示帮助

环境变量（可写在 ./.env）：
  NFTCSV_PARTS NFTCSV_OUTPUT NFTCSV_LOG_LEVEL NFTCSV_REDIS_ADDR NFTCSV_REDIS_PASSWORD NFTCSV_REDIS_KEY
`)
}

func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

var _ convert.Observer = logObserver{}

// logObserver 把阶段事件写成结构化日志（stderr），stdout 只留给最终结果行。
type logObserver struct {
	log zerolog.Logger
}

func (o logObserver) OnStart(eff config.EffectiveConfig) {
	o.log.Debug().
		Strs("parts", eff.Parts).
		Str("output", eff.Output).
		Bool("redis", eff.Redis.Enabled()).
		Msg("开始转换")
}

func (o logObserver) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	o.log.Info().
		Str("phase", name).
		Fields(fields).
		Dur("took", dur).
		Msg("阶段完成")
}
