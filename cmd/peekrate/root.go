package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/peekrate/internal/config"
	"github.com/John-Robertt/peekrate/internal/logging"
)

// globalFlags 是所有子命令共享的入口参数。
type globalFlags struct {
	configPath string
	apiKey     string
	logLevel   string
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	var gf globalFlags

	root := &cobra.Command{
		Use:           "peekrate",
		Short:         "在流媒体页面的标题卡片上悬停显示 IMDb 评分",
		Long:          "peekrate 把悬停事件编排为“防抖 -> 定位卡片 -> 查询评分（带缓存）-> 挂角标”。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&gf.configPath, "config", "", "配置文件路径（默认 ./"+config.FileName+"，可选）")
	root.PersistentFlags().StringVar(&gf.apiKey, "api-key", "", "OMDb 凭据（覆盖环境变量 "+config.EnvAPIKey+" 与配置文件）")
	root.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "日志级别：debug|info|warn|error")

	load := func(cmd *cobra.Command) (config.EffectiveConfig, *slog.Logger, error) {
		cwd, err := os.Getwd()
		if err != nil {
			return config.EffectiveConfig{}, nil, fmt.Errorf("读取当前目录失败：%w", err)
		}
		eff, err := config.LoadEffective(cwd, config.CLIArgs{
			ConfigPath:  gf.configPath,
			APIKey:      gf.apiKey,
			APIKeySet:   cmd.Flags().Changed("api-key"),
			LogLevel:    gf.logLevel,
			LogLevelSet: cmd.Flags().Changed("log-level"),
		}, getenv)
		if err != nil {
			return config.EffectiveConfig{}, nil, err
		}
		// 日志一律走 stderr，stdout 只留给结果。
		logger := logging.New(cmd.ErrOrStderr(), eff.LogLevel, eff.LogFormat)
		return eff, logger, nil
	}

	root.AddCommand(newLookupCmd(load))
	root.AddCommand(newHoverCmd(load))
	root.AddCommand(newVersionCmd())
	return root
}

type loadFunc func(cmd *cobra.Command) (config.EffectiveConfig, *slog.Logger, error)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "打印版本信息",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "peekrate %s (commit: %s)\n", version, commit)
		},
	}
}

// isTTY 只对 *os.File 判断；测试里的 buffer 一律按非 TTY 处理。
func isTTY(w io.Writer) bool {
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
