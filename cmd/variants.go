package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/shouni/go-content-kit/pkg/registry"

	"github.com/spf13/cobra"
)

// variantsCmd は登録済みのバリアントを一覧表示するのだ。
// モデルは呼ばないのでクレデンシャルは不要です。
var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "登録済みのバリアントを一覧表示しますなのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		reg, err := registry.Load(registry.Models{Text: cfg.TextModel, Vision: cfg.VisionModel})
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tINPUT\tMODEL\tFILENAME\tLABEL")
		for _, v := range reg.All() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.ID, v.Input, v.Model, v.Filename, v.Label)
		}
		return tw.Flush()
	},
}
