package i18n

import (
	"os"
	"path/filepath"
	"testing"
)

func TestForLanguage(t *testing.T) {
	zh, ok := ForLanguage("zh_CN")
	if !ok || zh.Message("isRequired") != "这是必填项" {
		t.Fatalf("zh-CN table: ok=%v msg=%q", ok, zh.Message("isRequired"))
	}
	en, ok := ForLanguage("en-us")
	if !ok || en.Message("isRequired") != "This is required" {
		t.Fatalf("en-US table: ok=%v msg=%q", ok, en.Message("isRequired"))
	}
	if _, ok := ForLanguage("fr"); ok {
		t.Fatalf("unknown language should report !ok")
	}
}

func TestTablesCoverTheSameRules(t *testing.T) {
	if len(zhCN) != len(enUS) {
		t.Fatalf("tables differ in size: %d vs %d", len(zhCN), len(enUS))
	}
	for k := range zhCN {
		if enUS[k] == "" {
			t.Fatalf("en-US misses %s", k)
		}
	}
}

func TestMerge_DoesNotTouchBuiltin(t *testing.T) {
	tbl := Default().Merge(map[string]string{"isRequired": "required!", "isEmail": ""})
	if tbl.Message("isRequired") != "required!" {
		t.Fatalf("override not applied")
	}
	if tbl.Message("isEmail") != zhCN["isEmail"] {
		t.Fatalf("empty override should be ignored")
	}
	if zhCN["isRequired"] != "这是必填项" {
		t.Fatalf("built-in table was modified")
	}
	tbl["isInt"] = "changed"
	if Default().Message("isInt") == "changed" {
		t.Fatalf("Default must return a copy")
	}
}

func TestFormat_ReplacesFirstPlaceholderOnly(t *testing.T) {
	if got := Format("too long, max $1", "5"); got != "too long, max 5" {
		t.Fatalf("got %q", got)
	}
	if got := Format("$1 and $1", "x"); got != "x and $1" {
		t.Fatalf("got %q", got)
	}
	if got := Format("no placeholder", "x"); got != "no placeholder" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"m.toml": "[messages]\nisRequired = \"必须填写\"\n",
		"m.yaml": "isRequired: 必须填写\n",
		"m.json": `{"messages":{"isRequired":"必须填写"}}`,
	}
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		m, err := LoadFile(p)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if m["isRequired"] != "必须填写" {
			t.Fatalf("%s: got %v", name, m)
		}
	}
	bad := filepath.Join(dir, "m.ini")
	_ = os.WriteFile(bad, []byte("x=1"), 0o644)
	if _, err := LoadFile(bad); err == nil {
		t.Fatalf("unsupported extension should fail")
	}
	nonString := filepath.Join(dir, "n.yaml")
	_ = os.WriteFile(nonString, []byte("isRequired: 3\n"), 0o644)
	if _, err := LoadFile(nonString); err == nil {
		t.Fatalf("non-string template should fail")
	}
}
