package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/asrecorded/asrec/internal/api"
	"github.com/asrecorded/asrec/internal/api/apitest"
	"github.com/asrecorded/asrec/internal/config"
	"github.com/asrecorded/asrec/internal/review"
	"github.com/asrecorded/asrec/internal/store"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

type harness struct {
	t   *testing.T
	srv *apitest.Server
	m   Model
}

func newHarness(t *testing.T, journal Journal, cfg config.Config) *harness {
	t.Helper()
	srv := apitest.New(t)
	srv.AddChapter(apitest.SampleChapter())
	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(Options{ChapterID: 7, Backend: client, Journal: journal, Config: cfg})
	h := &harness{t: t, srv: srv, m: m}
	h.send(tea.WindowSizeMsg{Width: 120, Height: 30})
	return h
}

// send feeds msg to Update and returns the resulting command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	updated, cmd := h.m.Update(msg)
	h.m = updated.(Model)
	return cmd
}

func (h *harness) press(keys ...string) tea.Cmd {
	h.t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = h.send(keyMsg(k))
	}
	return cmd
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// run executes a command and feeds its message back.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	if cmd == nil {
		h.t.Fatal("expected a command")
	}
	h.send(cmd())
}

func (h *harness) load() {
	h.t.Helper()
	h.run(h.m.loadCmd())
}

func TestNewModel(t *testing.T) {
	m := NewModel(Options{ChapterID: 7})
	if m.Session().Loaded() {
		t.Error("new model should not be loaded")
	}
	if m.editor != nil || m.search.IsActive() || m.picker.IsVisible() {
		t.Error("new model should have no overlay open")
	}
}

func TestLoadChapter(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	if !strings.Contains(h.m.View(), "Loading chapter 7") {
		t.Error("view should show loading state")
	}
	h.load()

	s := h.m.Session()
	if !s.Loaded() || s.CurrentTake().ID != 70 {
		t.Fatalf("loaded = %v current = %+v", s.Loaded(), s.CurrentTake())
	}
	view := h.m.View()
	if !strings.Contains(view, "Chapter 12 · El regreso") {
		t.Error("header should show chapter number and title")
	}
	if !strings.Contains(view, "Take 1 (00:00:01:00 - 00:00:09:12)") {
		t.Error("nav bar should show take label")
	}
}

func TestLoadChapter_Failure(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.m.chapterID = 99
	h.load()

	if got := h.m.Session().LoadError(); got != "Chapter not found" {
		t.Errorf("load error = %q", got)
	}
	view := h.m.View()
	if !strings.Contains(view, "Chapter not found") || !strings.Contains(view, "asrec series") {
		t.Error("error page should show message and way back")
	}
	if h.press("right") != nil || h.m.Session().CurrentTake() != nil {
		t.Error("no navigation on failed load")
	}
}

func TestNavigateTakes(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.load()

	h.press("right")
	if h.m.Session().CurrentTake().ID != 71 {
		t.Error("right should move to the next take")
	}
	h.press("l")
	if h.m.Session().CurrentTake().ID != 71 {
		t.Error("next at the last take is a no-op")
	}
	h.press("h")
	if h.m.Session().CurrentTake().ID != 70 {
		t.Error("h should move back")
	}
}

func TestSearchJumpsToPendingCharacter(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.load()
	h.press("right") // start on take 2

	h.press("/")
	if !h.m.search.IsActive() {
		t.Fatal("search box should open")
	}
	h.typeText("mar")
	h.press("tab")
	if h.m.search.Value() != "Marta" {
		t.Errorf("completion = %q, want Marta", h.m.search.Value())
	}
	h.press("enter")

	if h.m.search.IsActive() {
		t.Error("enter should close the search box")
	}
	if h.m.Session().CurrentTake().ID != 70 {
		t.Error("search should jump to the take with pending Marta")
	}
	if h.m.rowCursor != 1 {
		t.Errorf("rowCursor = %d, want Marta's row", h.m.rowCursor)
	}

	h.press("right")
	want := "no more pending interventions for Marta after this take."
	if !strings.Contains(h.m.View(), want) {
		t.Errorf("view should show %q", want)
	}

	h.press("esc")
	if h.m.Session().Navigator().Term() != "" || h.m.Session().Navigator().Message() != "" {
		t.Error("esc should clear the search")
	}
}

func TestToggleStatus(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.load()
	h.press("down")

	cmd := h.press("space")
	if !h.m.Session().Busy(702) {
		t.Error("row should be busy while saving")
	}
	iv, _ := h.m.Session().Intervention(702)
	if !iv.Completed {
		t.Error("optimistic value should show immediately")
	}
	if h.press("space") != nil {
		t.Error("toggle while busy should be refused")
	}

	h.run(cmd)
	if h.m.Session().Busy(702) {
		t.Error("row should be idle after save")
	}
	if srvIv, _ := h.srv.Intervention(702); !srvIv.Completed {
		t.Error("backend not updated")
	}
}

func TestEditDialogue(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.load()
	h.press("down", "e")

	if h.m.editor == nil || h.m.editor.field != review.FieldDialogue {
		t.Fatal("dialogue editor should open")
	}
	if h.m.dialogue.Value() != "¿Dónde estabas?" {
		t.Errorf("seed = %q", h.m.dialogue.Value())
	}
	h.typeText(" Ahora.")
	cmd := h.press("enter")
	if h.m.editor != nil {
		t.Error("enter should close the editor")
	}
	h.run(cmd)

	srvIv, _ := h.srv.Intervention(702)
	if srvIv.Dialogue != "¿Dónde estabas? Ahora." {
		t.Errorf("backend dialogue = %q", srvIv.Dialogue)
	}
}

func TestEditDialogue_LongTextKeptWhole(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 130; i++ {
		if i > 1 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Línea de diálogo número %d del ensayo.", i)
	}
	long := b.String()
	if len([]rune(long)) <= 2000 {
		t.Fatalf("fixture too short: %d runes", len([]rune(long)))
	}

	h := newHarness(t, nil, config.DefaultConfig())
	ch := apitest.SampleChapter()
	ch.Takes[0].Interventions[0].Dialogue = long
	h.srv.AddChapter(ch)
	h.load()

	h.press("e")
	if got := h.m.dialogue.Value(); got != long {
		t.Fatalf("editor seeded with %d runes, want %d", len([]rune(got)), len([]rune(long)))
	}
	h.typeText("!")
	h.run(h.press("enter"))

	srvIv, _ := h.srv.Intervention(701)
	if srvIv.Dialogue != long+"!" {
		t.Errorf("backend dialogue has %d runes, want %d", len([]rune(srvIv.Dialogue)), len([]rune(long))+1)
	}
}

func TestCtrlCQuitsFromAnyMode(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{"dialogue editor", []string{"e"}},
		{"timecode editor", []string{"c"}},
		{"take picker", []string{"t"}},
		{"search", []string{"/"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil, config.DefaultConfig())
			h.load()
			h.press(tt.keys...)

			cmd := h.press("ctrl+c")
			if cmd == nil {
				t.Fatal("ctrl+c should return a command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("ctrl+c should quit")
			}
		})
	}
}

func TestStatusBarShowsNonDefaultFPS(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FramesPerSecond = 30
	h := newHarness(t, nil, cfg)
	h.load()
	if !strings.Contains(h.m.View(), "30 fps") {
		t.Error("status bar should show the configured frame rate")
	}

	h = newHarness(t, nil, config.DefaultConfig())
	h.load()
	if strings.Contains(h.m.View(), " fps") {
		t.Error("default frame rate should not be shown")
	}
}

func TestEditDialogue_UnchangedSendsNothing(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.load()
	before := len(h.srv.Requests())

	h.press("e")
	if cmd := h.press("enter"); cmd != nil {
		t.Error("unchanged dialogue should not send")
	}
	if len(h.srv.Requests()) != before {
		t.Errorf("requests = %v", h.srv.Requests())
	}
}

func TestEditDialogue_EscCancels(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.load()
	h.press("e")
	h.typeText("xyz")
	if cmd := h.press("esc"); cmd != nil {
		t.Error("esc should not send")
	}
	iv, _ := h.m.Session().Intervention(701)
	if iv.Dialogue != "Hola." || h.m.editor != nil {
		t.Errorf("dialogue = %q, editor open = %v", iv.Dialogue, h.m.editor != nil)
	}
}

func TestEditFailureShowsBadge(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.load()
	h.srv.Fail("PATCH /interventions/:id/dialogue", 500, "Database error")

	h.press("down", "e")
	h.typeText("!")
	h.run(h.press("enter"))

	if got := h.m.Session().Error(702, review.FieldDialogue); got != "Database error" {
		t.Errorf("error = %q", got)
	}
	iv, _ := h.m.Session().Intervention(702)
	if iv.Dialogue != "¿Dónde estabas?!" {
		t.Errorf("dialogue = %q, want optimistic value kept", iv.Dialogue)
	}
	if !strings.Contains(h.m.View(), "dialogue: Database error") {
		t.Error("focused row error should be shown")
	}
}

func TestEditTimecode(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.load()
	h.press("right", "c")

	if h.m.editor == nil || h.m.editor.tc == nil {
		t.Fatal("timecode editor should open")
	}
	h.typeText("1215")
	if got := h.m.editor.tc.Display(); got != "00:00:12:15" {
		t.Errorf("display = %q", got)
	}
	h.press("backspace")
	h.typeText("0")
	h.run(h.press("enter"))

	srvIv, _ := h.srv.Intervention(711)
	if srvIv.TCIn == nil || *srvIv.TCIn != "00:00:12:10" {
		t.Errorf("backend tcIn = %v", srvIv.TCIn)
	}
}

func TestEditTimecode_InvalidIsNoop(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.load()
	h.press("c")
	h.typeText("99") // 99 frames at 25 fps
	if cmd := h.press("enter"); cmd != nil {
		t.Error("invalid timecode should not send")
	}
	iv, _ := h.m.Session().Intervention(701)
	if *iv.TCIn != "00:00:01:00" {
		t.Errorf("tcIn = %q", *iv.TCIn)
	}
}

func TestTakePicker(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.load()

	h.press("t")
	if !h.m.picker.IsVisible() {
		t.Fatal("picker should open")
	}
	if !strings.Contains(h.m.View(), "Take 2 (00:00:10:00 - --:--:--:--)") {
		t.Error("picker should list takes")
	}
	h.press("down", "enter")
	if h.m.picker.IsVisible() || h.m.Session().CurrentTake().ID != 71 {
		t.Error("enter should jump to the picked take")
	}
}

func TestQuitConfirmsWhileSaving(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.load()
	h.press("space")

	if cmd := h.press("q"); cmd != nil {
		t.Error("quit should wait for confirmation")
	}
	if !h.m.confirmQuit || !strings.Contains(h.m.View(), "still saving") {
		t.Error("confirmation should be shown")
	}
	h.press("n")
	if h.m.confirmQuit {
		t.Error("n should dismiss")
	}
}

func TestJournalAndPosition(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	h := newHarness(t, db, config.DefaultConfig())
	h.load()
	h.press("down")
	h.run(h.press("space"))

	entries, err := db.Recent(7, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.InterventionID != 702 || e.Field != "status" || e.Value != "true" || e.State != store.StateConfirmed {
		t.Errorf("entry = %+v", e)
	}
	ids := h.srv.RequestIDs()
	if ids[len(ids)-1] != e.RequestID {
		t.Errorf("request id %q not sent to backend (%v)", e.RequestID, ids)
	}

	h.press("right")
	if cmd := h.press("q"); cmd == nil {
		t.Fatal("quit expected")
	}
	if idx, ok, _ := db.Position(7); !ok || idx != 1 {
		t.Errorf("saved position = %d, %v", idx, ok)
	}

	// Reopening the chapter resumes on the saved take.
	h2 := newHarness(t, db, config.DefaultConfig())
	h2.load()
	if h2.m.Session().CurrentTake().ID != 71 {
		t.Error("position not restored")
	}
}

func TestExport(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ExportDir = t.TempDir()
	h := newHarness(t, nil, cfg)
	h.load()

	h.run(h.press("x"))

	path := filepath.Join(cfg.ExportDir, "chapter_7.xlsx")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "PK") {
		t.Errorf("export content = %q", data)
	}
	if !strings.Contains(h.m.View(), "exported") {
		t.Error("status should report the export")
	}
}

func TestEmptyChapter(t *testing.T) {
	h := newHarness(t, nil, config.DefaultConfig())
	h.srv.AddChapter(api.ChapterDetails{Chapter: api.Chapter{ID: 9, Number: 1, SeriesID: 3}})
	h.m.chapterID = 9
	h.load()

	if !strings.Contains(h.m.View(), "No takes in this chapter.") {
		t.Error("empty chapter should say so")
	}
	if h.press("t") != nil || h.m.picker.IsVisible() {
		t.Error("picker should not open without takes")
	}
}

func TestTakeDuration(t *testing.T) {
	s := func(v string) *string { return &v }
	tests := []struct {
		in, out *string
		want    string
		ok      bool
	}{
		{s("00:00:01:00"), s("00:00:09:12"), "00:00:08:12", true},
		{s("00:00:10:00"), nil, "", false},
		{s("00:00:10:00"), s("00:00:09:00"), "", false},
		{s("00:00:01:00"), s("00:00:02:30"), "", false},
	}
	for _, tt := range tests {
		got, ok := takeDuration(api.Take{TCIn: tt.in, TCOut: tt.out}, 25)
		if got != tt.want || ok != tt.ok {
			t.Errorf("takeDuration(%v, %v) = %q, %v", orDash(tt.in), orDash(tt.out), got, ok)
		}
	}
}
