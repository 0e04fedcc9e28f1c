package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandEnvVars_Set(t *testing.T) {
	t.Setenv("MEDIADEX_TEST_TOKEN", "abc123")
	out := ExpandEnvVars(`{"token": "${MEDIADEX_TEST_TOKEN}"}`)
	if out != `{"token": "abc123"}` {
		t.Errorf("unexpected expansion: %s", out)
	}
}

func TestExpandEnvVars_Default(t *testing.T) {
	out := ExpandEnvVars(`${MEDIADEX_UNSET_VAR:-fallback}`)
	if out != "fallback" {
		t.Errorf("expected fallback, got %s", out)
	}
}

func TestExpandEnvVars_UnsetNoDefault(t *testing.T) {
	out := ExpandEnvVars(`${MEDIADEX_UNSET_VAR}`)
	if out != `${MEDIADEX_UNSET_VAR}` {
		t.Errorf("unset var without default should stay literal, got %s", out)
	}
}

func TestFlexStringList_MixedTypes(t *testing.T) {
	var list FlexStringList
	if err := json.Unmarshal([]byte(`["123", 456]`), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0] != "123" || list[1] != "456" {
		t.Errorf("unexpected list: %v", list)
	}
}

func TestFlexStringList_Int64s(t *testing.T) {
	list := FlexStringList{"123", " 456 ", "not-a-number"}
	ids := list.Int64s()
	if len(ids) != 2 || ids[0] != 123 || ids[1] != 456 {
		t.Errorf("unexpected ids: %v", ids)
	}
}

func TestDefaults_Valid(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestValidate_BadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Search.MaxResults = 0
	cfg.Web.Port = 70000
	cfg.General.LogLevel = "verbose"
	cfg.Bot.ChannelURL = "http://insecure"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation errors")
	}
}

func TestLoad_JSON(t *testing.T) {
	t.Setenv("MEDIADEX_TEST_TOKEN", "tok-from-env")
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"bot": {"token": "${MEDIADEX_TEST_TOKEN}", "admins": [111, "222"]},
		"search": {"cacheTime": 60, "maxResults": 25}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bot.Token != "tok-from-env" {
		t.Errorf("expected env-expanded token, got %q", cfg.Bot.Token)
	}
	if cfg.Search.CacheTime != 60 || cfg.Search.MaxResults != 25 {
		t.Errorf("unexpected search config: %+v", cfg.Search)
	}
	admins := cfg.Bot.Admins.Int64s()
	if len(admins) != 2 || admins[0] != 111 || admins[1] != 222 {
		t.Errorf("unexpected admins: %v", admins)
	}
	// Unset sections keep their defaults.
	if cfg.Index.DBPath == "" {
		t.Error("defaults should fill index.dbPath")
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
bot:
  token: tok-yaml
  admins: [111, "222"]
search:
  cacheTime: 120
  maxResults: 30
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bot.Token != "tok-yaml" {
		t.Errorf("unexpected token %q", cfg.Bot.Token)
	}
	if cfg.Search.CacheTime != 120 || cfg.Search.MaxResults != 30 {
		t.Errorf("unexpected search config: %+v", cfg.Search)
	}
	admins := cfg.Bot.Admins.Int64s()
	if len(admins) != 2 || admins[0] != 111 || admins[1] != 222 {
		t.Errorf("unexpected admins: %v", admins)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSanitize_RedactsToken(t *testing.T) {
	cfg := Defaults()
	cfg.Bot.Token = "secret"

	out := Sanitize(cfg)
	if out.Bot.Token != "***" {
		t.Errorf("token not redacted: %q", out.Bot.Token)
	}
	if cfg.Bot.Token != "secret" {
		t.Error("original config must not be mutated")
	}
}
