package publisher

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolveOutputPath は、ベースディレクトリとファイル名から最終的な出力パスを生成します。
// ファイル名にディレクトリ成分が含まれている場合はエラーにするのだ。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	if fileName == "" {
		return "", fmt.Errorf("出力ファイル名が空です")
	}
	if fileName == "." || fileName == ".." || filepath.Base(fileName) != fileName || strings.ContainsAny(fileName, `/\`) {
		return "", fmt.Errorf("出力ファイル名 '%s' にディレクトリを含めることはできません", fileName)
	}
	if baseDir == "" {
		baseDir = "."
	}
	return filepath.Join(baseDir, fileName), nil
}
