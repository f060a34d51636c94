package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func TestCLI_Convert_WritesJSONAndPrintsSummary(t *testing.T) {
	// 锁定对外契约：stdout 只有一行完成信息（含输出路径与条数），日志走 stderr。
	dir := t.TempDir()
	parts := []string{
		"No,Token ID,Name,Image URL,Contract Address\n1,42,\"Cool Ape\",\"http://img/1.png\",0xABC123\n",
		"2,43,Ape Two,http://img/2.png,0xABC123\n",
		"",
		"",
	}
	args := []string{"run", "./cmd/nftcsv", "convert"}
	for i, content := range parts {
		p := filepath.Join(dir, "genesis_part"+string(rune('1'+i))+".csv")
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		args = append(args, p)
	}
	out := filepath.Join(dir, "genesis_nfts.json")
	args = append(args, "--out", out)

	cmd := exec.Command("go", args...)
	cmd.Dir = repoRoot(t)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	require.NoError(t, cmd.Run(), "stderr=%s\nstdout=%s", stderr.String(), stdout.String())

	assert.Equal(t, "完成：已写入 "+out+"，共 2 条\n", stdout.String())
	assert.Contains(t, stderr.String(), "阶段完成")

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "[\n  {\n"))
	assert.Contains(t, string(b), `"token_address": "0xabc123"`)
}

func TestCLI_Convert_MissingPartFails(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "genesis_nfts.json")

	cmd := exec.Command("go", "run", "./cmd/nftcsv", "convert", filepath.Join(dir, "missing.csv"), "--out", out)
	cmd.Dir = repoRoot(t)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var ee *exec.ExitError
	require.True(t, errors.As(err, &ee), "期望非零退出，实际 err=%v", err)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "missing.csv")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}
