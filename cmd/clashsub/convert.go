package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nodeforge/clashsub/internal/convert"
	"github.com/spf13/cobra"
)

var (
	convertPolicy    string
	convertNoCompact bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "转换一份订阅文档（默认读 stdin，结果写 stdout）",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args)
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertPolicy, "policy", "heuristic", "分组策略（fixed/heuristic）")
	convertCmd.Flags().BoolVar(&convertNoCompact, "no-compact", false, "关闭共享引用压缩")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	var text []byte
	var err error
	if len(args) == 1 {
		text, err = os.ReadFile(args[0])
	} else {
		text, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("读取输入失败: %w", err)
	}

	out, err := convert.Convert(string(text), convert.Options{
		Policy:    convert.Policy(convertPolicy),
		NoCompact: convertNoCompact,
	})
	if err != nil {
		return err
	}

	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}
