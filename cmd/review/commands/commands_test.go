// ABOUTME: End-to-end tests for review commands against a temp SQLite store
// ABOUTME: Drives the root command with args and stdin, asserts on output

package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/review-console/internal/review"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REVIEW_BACKEND", "sqlite")
	t.Setenv("REVIEW_DB_PATH", filepath.Join(t.TempDir(), "reviews.db"))
	t.Setenv("REVIEW_LOG_LEVEL", "error")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("review %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func showView(t *testing.T, videoID string) review.View {
	t.Helper()
	out := mustRun(t, "show", videoID, "--format", "json")
	var view review.View
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode show output: %v\n%s", err, out)
	}
	return view
}

func selectedIDs(v review.View) map[string]bool {
	out := make(map[string]bool)
	for _, d := range v.Decisions {
		if d.Selected {
			out[d.ID] = true
		}
	}
	return out
}

func TestTaxonomyAndTopics(t *testing.T) {
	out := mustRun(t, "taxonomy")
	for _, want := range []string{"Basic Decisions", "VAR", "Mistaken Identity (varMistakenIdentity)"} {
		if !strings.Contains(out, want) {
			t.Errorf("taxonomy output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "taxonomy", "--format", "json")
	var groups []map[string]any
	if err := json.Unmarshal([]byte(out), &groups); err != nil {
		t.Fatalf("taxonomy json: %v", err)
	}
	if len(groups) != 4 {
		t.Errorf("taxonomy json has %d groups, want 4", len(groups))
	}

	out = mustRun(t, "topics")
	if !strings.Contains(out, "Handball (handball)") || !strings.Contains(out, "debatable") {
		t.Errorf("topics output:\n%s", out)
	}
}

func TestDecide_CascadesAndPersists(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "decide", "clip-1", "--on", "offsideInterferingPlay,yellowCard")
	if !strings.Contains(out, "[x] Interfering with Play") {
		t.Errorf("decide output missing selected child:\n%s", out)
	}
	if !strings.Contains(out, "Cards: Yellow Card") {
		t.Errorf("decide output missing considerations:\n%s", out)
	}

	got := selectedIDs(showView(t, "clip-1"))
	for _, id := range []string{"offside", "offsideInterferingPlay", "yellowCard"} {
		if !got[id] {
			t.Errorf("%s should be selected after decide, got %v", id, got)
		}
	}

	// Clearing the parent clears the child but leaves other groups alone
	mustRun(t, "decide", "clip-1", "--off", "offside")
	got = selectedIDs(showView(t, "clip-1"))
	if got["offside"] || got["offsideInterferingPlay"] {
		t.Errorf("offside subtree should be cleared, got %v", got)
	}
	if !got["yellowCard"] {
		t.Errorf("yellowCard should stay selected, got %v", got)
	}
}

func TestDecide_UnknownNodeSavesNothing(t *testing.T) {
	setupEnv(t)

	if _, err := runCLI(t, "", "decide", "clip-1", "--on", "goal,bogus"); err == nil {
		t.Fatal("decide with an unknown id should fail")
	}

	out := mustRun(t, "list")
	if !strings.Contains(out, "No reviews found") {
		t.Errorf("nothing should be saved, list shows:\n%s", out)
	}
}

func TestDecide_Rows(t *testing.T) {
	setupEnv(t)

	mustRun(t, "decide", "clip-2", "--row", "handball/deliberate:correct", "--row", "holding")

	view := showView(t, "clip-2")
	if len(view.Rows) != 2 {
		t.Fatalf("rows = %+v, want 2", view.Rows)
	}
	first := view.Rows[0]
	if first.TopicID != "handball" || first.SubTopicID != "deliberate" || first.Correction != "correct" {
		t.Errorf("first row = %+v", first)
	}
	if view.Rows[1].TopicID != "holding" {
		t.Errorf("second row = %+v", view.Rows[1])
	}

	out := mustRun(t, "show", "clip-2")
	if !strings.Contains(out, "Handball / Deliberate handling  [correct]") {
		t.Errorf("show output:\n%s", out)
	}

	if _, err := runCLI(t, "", "decide", "clip-2", "--row", "holding/deliberate"); err == nil {
		t.Error("sub-topic of another topic should be rejected")
	}
}

func TestEdit_Session(t *testing.T) {
	setupEnv(t)

	script := strings.Join([]string{
		"on varGoal",
		"row set 1 topic dogso",
		"row set 1 subTopic dogsoFoul",
		"row rm 1",
		"bogus",
		"on nope",
		"save",
		"quit",
	}, "\n") + "\n"

	out, err := runCLI(t, script, "edit", "clip-3")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	for _, want := range []string{
		"selected: varReview, varGoal",
		"error: the form must keep at least one row",
		`error: unknown command "bogus"`,
		"saved review",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("edit output missing %q:\n%s", want, out)
		}
	}

	view := showView(t, "clip-3")
	got := selectedIDs(view)
	if !got["varReview"] || !got["varGoal"] || len(got) != 2 {
		t.Errorf("selected = %v", got)
	}
	if view.Rows[0].TopicID != "dogso" || view.Rows[0].SubTopicID != "dogsoFoul" {
		t.Errorf("row = %+v", view.Rows[0])
	}
}

func TestEdit_QuitDiscards(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "on goal\nquit\n", "edit", "clip-4")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !strings.Contains(out, "discarding unsaved changes") {
		t.Errorf("edit output:\n%s", out)
	}

	if _, err := runCLI(t, "", "show", "clip-4"); err == nil {
		t.Error("show should fail for a review that was never saved")
	}
}

func TestListDelete(t *testing.T) {
	setupEnv(t)

	mustRun(t, "decide", "clip-5", "--on", "noFoul")
	mustRun(t, "decide", "clip-6", "--on", "redCard")

	out := mustRun(t, "list")
	if !strings.Contains(out, "clip-5") || !strings.Contains(out, "Total: 2 review(s)") {
		t.Errorf("list output:\n%s", out)
	}

	out = mustRun(t, "delete", "clip-5")
	if !strings.Contains(out, "Deleted review for clip-5") {
		t.Errorf("delete output:\n%s", out)
	}
	if _, err := runCLI(t, "", "delete", "clip-5"); err == nil {
		t.Error("deleting twice should fail")
	}

	out = mustRun(t, "list", "--format", "json")
	if strings.Contains(out, "clip-5") || !strings.Contains(out, "clip-6") {
		t.Errorf("list json after delete:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	setupEnv(t)
	mustRun(t, "decide", "clip-7", "--on", "penaltyKick", "--row", "spa:debatable")

	path := filepath.Join(t.TempDir(), "reviews.json")
	out := mustRun(t, "export", "-f", "json", "-o", path)
	if !strings.Contains(out, "Exported 1 review(s)") {
		t.Errorf("export output:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var exported struct {
		Reviews []struct {
			VideoID  string   `json:"video_id"`
			Selected []string `json:"selected"`
		} `json:"reviews"`
	}
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(exported.Reviews) != 1 || exported.Reviews[0].VideoID != "clip-7" {
		t.Errorf("export = %+v", exported)
	}

	out = mustRun(t, "export")
	if !strings.Contains(out, "video_id: clip-7") {
		t.Errorf("yaml export:\n%s", out)
	}

	if _, err := runCLI(t, "", "export", "-f", "csv"); err == nil {
		t.Error("unknown export format should fail")
	}
}

func TestDraft(t *testing.T) {
	setupEnv(t)
	mustRun(t, "decide", "clip-8", "--on", "directFreeKick")

	if _, err := runCLI(t, "", "draft", "clip-8"); err == nil {
		t.Fatal("draft without an API key should fail")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Clear direct free kick."}}]}`)
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL+"/v1")

	out := mustRun(t, "draft", "clip-8")
	if !strings.Contains(out, "Clear direct free kick.") {
		t.Errorf("draft output:\n%s", out)
	}
}

func TestDecideJSONIncludesDraft(t *testing.T) {
	setupEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Offside, interfering with play."}}]}`)
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL+"/v1")

	out := mustRun(t, "decide", "clip-9", "--on", "offsideInterferingPlay", "--draft", "--format", "json")

	var got struct {
		review.View
		Draft string `json:"draft"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode decide output: %v\n%s", err, out)
	}
	if got.Draft != "Offside, interfering with play." {
		t.Errorf("draft = %q", got.Draft)
	}
	if got.VideoID != "clip-9" || !selectedIDs(got.View)["offsideInterferingPlay"] {
		t.Errorf("review = %+v", got.View)
	}

	t.Setenv("OPENAI_API_KEY", "")
	out = mustRun(t, "decide", "clip-9", "--draft", "--format", "json")
	if strings.Contains(out, `"draft"`) {
		t.Errorf("draft field present without an API key:\n%s", out)
	}
}
