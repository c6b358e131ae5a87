package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	fallback := GetCatalog("missing-locale")
	if fallback != base {
		t.Fatal("expected fallback to en-US catalog")
	}
}

func TestGetCatalogMatchesRegionlessLocale(t *testing.T) {
	cat := GetCatalog("pt")
	if cat.Locale() != "pt-BR" {
		t.Fatalf("locale = %q, want pt-BR", cat.Locale())
	}
	got := cat.Format("DIE_EXHAUSTED", map[string]string{"Node": "pool"})
	if got != "O dado pool não tem mais valores para sortear." {
		t.Fatalf("unexpected pt-BR message %q", got)
	}
}

func TestFormatDieMessages(t *testing.T) {
	cat := GetCatalog("en-US")
	got := cat.Format("DIE_DRAW_DOMAIN", map[string]string{
		"Node":    "log",
		"Operand": "argument",
		"Value":   "0",
	})
	want := "The log die drew 0, which is outside the domain of its argument."
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestFormatTemplateExecutionErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ call .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ call .Name }}" {
		t.Fatal("expected template fallback on execute error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}
