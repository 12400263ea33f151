package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var bistroScenario = filepath.Join("..", "..", "..", "..", "scenarios", "bistro")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	root := NewRootCommand()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("kitchen %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "kitchen.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("KITCHEN_LOCALE", "en")
}

func TestRootHelp(t *testing.T) {
	out := mustRun(t, "--help")
	for _, name := range []string{"serve", "seed", "preview", "confirm", "summary", "fix-links", "cleanup-duplicates"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected help to list %s", name)
		}
	}
}

func TestCommandsRequireUser(t *testing.T) {
	useSQLite(t)
	t.Setenv("KITCHEN_USER", "")
	if _, err := run(t, "summary"); err == nil || !strings.Contains(err.Error(), "--user is required") {
		t.Errorf("Expected missing user error, got %v", err)
	}
}

func TestSeedRequiresScenario(t *testing.T) {
	useSQLite(t)
	if _, err := run(t, "seed"); err == nil {
		t.Error("Expected seed without --scenario to fail")
	}
}

func TestWorkflowOverSQLite(t *testing.T) {
	useSQLite(t)

	out := mustRun(t, "seed", "--scenario", bistroScenario)
	if !strings.Contains(out, "loaded into sqlite") {
		t.Errorf("Unexpected seed output %q", out)
	}
	// seeding twice upserts the same rows
	mustRun(t, "seed", "--scenario", bistroScenario)

	out = mustRun(t, "--user", "user-1", "preview", "--recipe", "R-PIZZA", "--portions", "3")
	if !strings.Contains(out, "Mozzarella") || !strings.Contains(out, "0.64") {
		t.Errorf("Unexpected preview output:\n%s", out)
	}

	out = mustRun(t, "--user", "user-1", "confirm", "--recipe", "R-PIZZA", "--portions", "3", "--date", "2025-03-14", "--name", "Midi")
	if !strings.Contains(out, "recorded") || !strings.Contains(out, "Stock Deductions") {
		t.Errorf("Unexpected confirm output:\n%s", out)
	}

	out = mustRun(t, "--user", "user-1", "--format", "json", "summary")
	var summary struct {
		Period      string  `json:"period"`
		TotalDishes float64 `json:"totalDishes"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("Expected JSON summary, got %q: %v", out, err)
	}
	if summary.TotalDishes != 3 || summary.Period != "Latest consumption" {
		t.Errorf("Unexpected summary %+v", summary)
	}

	xlsx := filepath.Join(t.TempDir(), "summary.xlsx")
	mustRun(t, "--user", "user-1", "--format", "xlsx", "--output", xlsx, "summary")
	if _, err := os.Stat(xlsx); err != nil {
		t.Errorf("Expected workbook at %s: %v", xlsx, err)
	}

	out = mustRun(t, "--user", "user-1", "consumptions", "--type", "sale")
	if !strings.Contains(out, "2025-03-14") || !strings.Contains(out, "Midi") {
		t.Errorf("Unexpected listing:\n%s", out)
	}

	out = mustRun(t, "--user", "user-1", "cleanup-duplicates")
	if !strings.Contains(out, "recipes deleted: 1") || !strings.Contains(out, "R-PIZZA-OLD") {
		t.Errorf("Unexpected cleanup output:\n%s", out)
	}

	out = mustRun(t, "--user", "user-1", "fix-links")
	if !strings.Contains(out, "5 fixed") {
		t.Errorf("Unexpected fix-links output:\n%s", out)
	}

	if _, err := run(t, "--user", "user-1", "confirm", "--recipe", "R-NONE", "--portions", "1"); err == nil {
		t.Error("Expected confirm of an unknown recipe to fail")
	}
}

func TestScenarioRunsInMemory(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://unused")
	t.Setenv("LOG_LEVEL", "error")

	out := mustRun(t, "--scenario", bistroScenario, "--user", "user-1", "preview", "--recipe", "R-SALADE", "--portions", "2")
	if !strings.Contains(out, "unmatched") {
		t.Errorf("Expected basil without stock to be unmatched:\n%s", out)
	}
}
