package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sourcecheck/sourcecheck/internal/config"
)

func TestCheckStatementOk(t *testing.T) {
	r := New(&config.Config{})
	var buf bytes.Buffer
	r.checkStatement(&buf, "1 + 2;")
	if got := buf.String(); !strings.Contains(got, "ok") {
		t.Errorf("expected ok output, got %q", got)
	}
}

func TestCheckStatementReportsDiagnostic(t *testing.T) {
	r := New(&config.Config{})
	var buf bytes.Buffer
	r.checkStatement(&buf, "1 + true;")
	if got := buf.String(); !strings.Contains(got, "TC001") {
		t.Errorf("expected a rendered TC001 diagnostic, got %q", got)
	}
}

func TestCheckStatementReportsSyntaxError(t *testing.T) {
	r := New(&config.Config{})
	var buf bytes.Buffer
	r.checkStatement(&buf, "1 +")
	if got := buf.String(); !strings.Contains(got, "syntax error") {
		t.Errorf("expected a syntax error message, got %q", got)
	}
}

func TestPrintTypeShowsExpressionType(t *testing.T) {
	r := New(&config.Config{})
	var buf bytes.Buffer
	r.printType(&buf, "1 + 2")
	if got := strings.TrimSpace(buf.String()); got != "number" {
		t.Errorf("expected number, got %q", got)
	}
}

func TestPrintTypeRejectsMultipleStatements(t *testing.T) {
	r := New(&config.Config{})
	var buf bytes.Buffer
	r.printType(&buf, "1; 2")
	if got := buf.String(); !strings.Contains(got, "expected a single expression") {
		t.Errorf("expected rejection message, got %q", got)
	}
}

func TestCheckStatementRespectsAllowMutationConfig(t *testing.T) {
	r := New(&config.Config{AllowMutation: false})
	var buf bytes.Buffer
	r.checkStatement(&buf, "set_head(pair(1, 2), 3);")
	if got := buf.String(); !strings.Contains(got, "TC010") {
		t.Errorf("expected set_head to be undefined with AllowMutation false, got %q", got)
	}
}
