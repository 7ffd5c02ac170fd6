package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/wordy/lang"
	"github.com/ardnew/wordy/log"
	"github.com/ardnew/wordy/pkg"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", pkg.Name+"-cli-test-")
	if err != nil {
		panic(err)
	}

	// pkg.ConfigDir and pkg.CacheDir are computed once
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	log.Config(log.WithOutput(nil))

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}

// Arguments are bound as written, so each level passes the literal on.
const chain = `functionNamed <c> withParameters <x> { print <x> toterminal# }
functionNamed <b> withParameters <x> { callFunction <c> withArguments <"deep"># }
functionNamed <a> withParameters <x> { callFunction <b> withArguments <"deep"># }
callFunction <a> withArguments <"deep">#
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, ers bytes.Buffer

	err := run(context.Background(), func(code int) {
		t.Errorf("unexpected exit(%d)", code)
	}, &out, &ers, args)

	return out.String(), err
}

func TestRun_Config(t *testing.T) {
	script := filepath.Join(t.TempDir(), "chain"+pkg.Extension)
	writeFile(t, script, chain)

	config := pkg.ConfigPath(baseConfig)
	t.Cleanup(func() { os.Remove(config) })

	out, err := execute(t, "run", script)
	if err != nil {
		t.Fatalf("default depth: %v", err)
	}

	if out != "deep\n" {
		t.Errorf("stdout = %q, want %q", out, "deep\n")
	}

	writeFile(t, config, "integerNamed <max_depth> hasTheValueOf <2>#\n")

	if _, err := execute(t, "run", script); !errors.Is(err, lang.ErrMaxDepthExceeded) {
		t.Errorf("configured depth: error = %v, want %v", err, lang.ErrMaxDepthExceeded)
	}

	if _, err := execute(t, "--max-depth", "3", "run", script); err != nil {
		t.Errorf("flag should override configuration: %v", err)
	}
}

func TestRun_DefaultCommand(t *testing.T) {
	script := filepath.Join(t.TempDir(), "hello"+pkg.Extension)
	writeFile(t, script, `print <"hello"> toterminal#`)

	out, err := execute(t, script)
	if err != nil {
		t.Fatal(err)
	}

	if out != "hello\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRun_Init(t *testing.T) {
	config := pkg.ConfigPath(baseConfig)
	t.Cleanup(func() { os.Remove(config) })

	if _, err := execute(t, "--log-level", "warn", "init", "--force"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(config)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`textValueNamed <log_level> hasTheValueOf <"warn">#`,
		`integerNamed <max_depth> hasTheValueOf <256>#`,
		`textValueNamed <strict> hasTheValueOf <"false">#`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config missing %q:\n%s", want, data)
		}
	}

	if strings.Contains(string(data), "pprof") || strings.Contains(string(data), "version") {
		t.Errorf("config holds excluded flags:\n%s", data)
	}

	// the generated file must be accepted as configuration
	if _, err := execute(t, "demo", "--print"); err != nil {
		t.Errorf("run with generated config: %v", err)
	}
}
