package preview

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobdigest/internal/ai"
	"github.com/amishk599/jobdigest/internal/model"
)

type stubGenerator struct {
	msg   string
	err   error
	calls int
}

func (s *stubGenerator) Enabled() bool { return true }

func (s *stubGenerator) Generate(_ context.Context, _ model.Job) (string, error) {
	s.calls++
	return s.msg, s.err
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m previewModel, msgs ...tea.Msg) (previewModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(previewModel)
	}
	return m, cmd
}

func testJobs() (collected, digestJobs []model.Job) {
	a := model.Job{Title: "Backend Engineer", Company: "Stripe", Location: "Seattle", JobID: "a"}
	b := model.Job{Title: "Backend Engineer", Company: "Stripe", Location: "Remote", JobID: "b"}
	c := model.Job{Title: "SWE", Company: "Uber", Description: "Rides.", ApplyLink: "https://example.com/uber"}
	return []model.Job{a, b, c}, []model.Job{a, c}
}

func readyModel(t *testing.T, gen *stubGenerator) previewModel {
	t.Helper()
	collected, digestJobs := testJobs()
	m := newPreviewModel(collected, digestJobs, nil)
	if gen != nil {
		m.outreach = gen
	}
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestPreview_ListShowsBothPanes(t *testing.T) {
	m := readyModel(t, nil)

	view := m.View()
	for _, want := range []string{"Collected (3)", "Digest (2)", "1 dropped"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPreview_CursorClamped(t *testing.T) {
	m := readyModel(t, nil)

	m, _ = send(t, m, key("j"), key("j"), key("j"), key("j"))
	if m.leftCursor != 2 {
		t.Errorf("leftCursor = %d, want 2", m.leftCursor)
	}
	m, _ = send(t, m, key("k"), key("k"), key("k"), key("k"))
	if m.leftCursor != 0 {
		t.Errorf("leftCursor = %d, want 0", m.leftCursor)
	}
}

func TestPreview_TabSwitchesPane(t *testing.T) {
	m := readyModel(t, nil)

	m, _ = send(t, m, key("tab"), key("j"))
	if m.activePane != 1 || m.rightCursor != 1 || m.leftCursor != 0 {
		t.Errorf("pane=%d left=%d right=%d", m.activePane, m.leftCursor, m.rightCursor)
	}
}

func TestPreview_DetailAndBack(t *testing.T) {
	m := readyModel(t, nil)

	m, _ = send(t, m, key("tab"), key("j"), key("enter"))
	if m.view != viewDetail {
		t.Fatal("enter should open the detail view")
	}
	if m.detailJob.Company != "Uber" {
		t.Errorf("detail company = %q, want Uber", m.detailJob.Company)
	}
	if !strings.Contains(m.renderDetail(), "https://example.com/uber") {
		t.Error("detail missing apply link")
	}

	m, _ = send(t, m, key("esc"))
	if m.view != viewList {
		t.Error("esc should return to the list")
	}
}

func TestPreview_GenerateOutreachUpdatesDuplicates(t *testing.T) {
	gen := &stubGenerator{msg: "Hi! Loved the Stripe docs."}
	m := readyModel(t, gen)

	m, _ = send(t, m, key("enter"))
	m, cmd := send(t, m, key("g"))
	if cmd == nil || !m.outreachLoading {
		t.Fatal("g should start outreach generation")
	}

	m, _ = send(t, m, cmd())
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
	if m.detailJob.Outreach != gen.msg {
		t.Errorf("detail outreach = %q", m.detailJob.Outreach)
	}
	// Both collected duplicates and the digest entry share the identity.
	if m.collected[0].Outreach != gen.msg || m.collected[1].Outreach != gen.msg || m.digestJobs[0].Outreach != gen.msg {
		t.Error("outreach not propagated to every job with the same identity")
	}
	if m.digestJobs[1].Outreach != "" {
		t.Error("unrelated job should not receive outreach")
	}

	// A second press does nothing once a message exists.
	if _, cmd := send(t, m, key("g")); cmd != nil {
		t.Error("g should be a no-op when outreach already exists")
	}
}

func TestPreview_GenerateOutreachFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("insufficient_quota")}
	m := readyModel(t, gen)

	m, _ = send(t, m, key("enter"))
	m, cmd := send(t, m, key("g"))
	m, _ = send(t, m, cmd())

	if m.outreachLoading {
		t.Error("loading should clear after failure")
	}
	if !strings.Contains(m.outreachError, "insufficient_quota") {
		t.Errorf("outreachError = %q", m.outreachError)
	}
	if m.detailJob.Outreach != "" {
		t.Error("failed generation must not set outreach")
	}
}

func TestPreview_DisabledOutreachIgnoresGenerateKey(t *testing.T) {
	collected, digestJobs := testJobs()
	m := newPreviewModel(collected, digestJobs, ai.NewDisabledOutreachGenerator())
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = send(t, m, key("enter"))
	m, cmd := send(t, m, key("g"))
	if cmd != nil {
		t.Error("g should not start generation when outreach is disabled")
	}
	if m.outreachLoading {
		t.Error("outreachLoading set with disabled generator")
	}
	if !strings.Contains(m.renderDetail(), ai.DisabledPlaceholder) {
		t.Error("detail view should show the disabled placeholder")
	}
}

func TestPreview_QuitVersusBack(t *testing.T) {
	m := readyModel(t, nil)

	quit, _ := send(t, m, key("q"))
	if !quit.wantQuit {
		t.Error("q should request quit")
	}
	back, _ := send(t, m, key("esc"))
	if back.wantQuit {
		t.Error("esc from the list should return to the picker")
	}
}

func TestPicker_Selection(t *testing.T) {
	companies := []string{"Stripe", "Uber"}

	tests := []struct {
		name   string
		keys   []string
		want   []string
		wantOK bool
	}{
		{"all companies", []string{"enter"}, companies, true},
		{"single company", []string{"j", "j", "enter"}, []string{"Uber"}, true},
		{"cursor clamped", []string{"j", "j", "j", "j", "enter"}, []string{"Uber"}, true},
		{"jump to last", []string{"G", "enter"}, []string{"Uber"}, true},
		{"jump back to all", []string{"G", "g", "enter"}, companies, true},
		{"quit", []string{"q"}, nil, false},
		{"esc cancels", []string{"j", "esc"}, nil, false},
		{"no key yet", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = newPickerModel(companies)
			for _, k := range tt.keys {
				m, _ = m.Update(key(k))
			}
			got, ok := m.(pickerModel).selection()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("selection = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Errorf("wordWrap = %q", got)
	}
	if wordWrap("   ", 10) != "" {
		t.Error("blank input should wrap to empty")
	}
}
